package handlers

import (
	"strconv"
	"sync"

	"github.com/geocoder89/tasktracker/internal/domain/task"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	statusTag   = "taskstatus"
	maxBytesTag = "maxbytes"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator.
// It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_ = v.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
			return task.Status(fl.Field().String()).Valid()
		})

		// max counts runes; bcrypt's limit is in bytes
		_ = v.RegisterValidation(maxBytesTag, func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return len(fl.Field().String()) <= limit
		})
	})
}
