package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// handlerTimeout bounds every service call a handler makes.
const handlerTimeout = 5 * time.Second

// Clock tells handlers what time it is at the library.
type Clock func() time.Time

// LibraryClock reads the wall clock in the library's own time zone.
func LibraryClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

var registerFieldNames sync.Once

// useJSONFieldNames makes binding errors name fields the way clients send them.
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
}

// respondBindError reports a request that could not be bound or failed its binding rules.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": fields})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return "Select a valid choice."
	case "numeric":
		return "Enter a number."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return "Enter a valid value."
	}
}

// respondError maps a service error onto its HTTP status. Anything outside the three
// service categories is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": verr.Fields})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": publicMessage(err, service.ErrValidation)})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": publicMessage(err, service.ErrNotFound) + " not found"})
	case errors.Is(err, service.ErrInvariant):
		c.JSON(http.StatusConflict, gin.H{"error": publicMessage(err, service.ErrInvariant)})
	default:
		slog.ErrorContext(c.Request.Context(), "request_failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// publicMessage strips the category prefix off a wrapped service error.
func publicMessage(err, category error) string {
	return strings.TrimPrefix(err.Error(), category.Error()+": ")
}
