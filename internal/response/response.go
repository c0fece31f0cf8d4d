// Package response shapes every API reply into the same two envelopes:
// {success: true, message?, data} and {success: false, message, errors?}.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// OK writes a success envelope. message may be empty.
func OK(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

// Error writes a failure envelope with just a message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// ValidationFailed writes a 422 with per-field error messages.
func ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  fieldErrors,
	})
}

// RateLimited writes a 429 with the number of seconds to wait.
func RateLimited(c *gin.Context, message string, retryAfter int) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"success":     false,
		"message":     message,
		"retry_after": retryAfter,
	})
}

// BindingErrors converts gin binding failures into a field → message map so
// handlers can report them through ValidationFailed.
func BindingErrors(err error) map[string]string {
	fieldErrors := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fieldErrors["body"] = "Invalid request body"
		return fieldErrors
	}

	for _, fe := range validationErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fieldErrors[field] = "The " + field + " field is required"
		case "oneof":
			fieldErrors[field] = "The " + field + " field must be one of: " + fe.Param()
		case "email":
			fieldErrors[field] = "The " + field + " field must be a valid email address"
		case "min":
			fieldErrors[field] = "The " + field + " field must be at least " + fe.Param()
		case "max":
			fieldErrors[field] = "The " + field + " field must be at most " + fe.Param()
		case "gt":
			fieldErrors[field] = "The " + field + " field must be greater than " + fe.Param()
		case "gte":
			fieldErrors[field] = "The " + field + " field must be at least " + fe.Param()
		default:
			fieldErrors[field] = "The " + field + " field is invalid"
		}
	}

	return fieldErrors
}
