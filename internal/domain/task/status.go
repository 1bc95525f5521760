package task

import "strings"

// Status is the closed set of board columns a task can sit in.
type Status string

const (
	StatusToDo        Status = "To Do"
	StatusInProgress  Status = "In Progress"
	StatusUnderReview Status = "Under Review"
	StatusFinished    Status = "Finished"
)

var allStatuses = []Status{StatusToDo, StatusInProgress, StatusUnderReview, StatusFinished}

func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsZero reports an unset status, which is stored as NULL.
func (s Status) IsZero() bool {
	return s == ""
}

func (s Status) String() string {
	return string(s)
}

// StatusNames renders the set for error messages.
func StatusNames() string {
	names := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
