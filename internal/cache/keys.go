package cache

import "strconv"

// TasksGenKey holds the owner's list generation; every task write bumps it.
func TasksGenKey(userID string) string {
	return "tasks:gen:v1:user=" + userID
}

// TasksListKey is the per-owner key for the full task list at generation gen.
func TasksListKey(userID string, gen int64) string {
	return "tasks:list:v1:user=" + userID + ":gen=" + strconv.FormatInt(gen, 10)
}
