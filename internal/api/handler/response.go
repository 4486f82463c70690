package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"smartalert/backend/internal/apperror"
	"smartalert/backend/internal/complaint"
	"smartalert/backend/internal/session"
	"smartalert/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      *ErrorInfo  `json:"error,omitempty"`
	RedirectTo string      `json:"redirect_to,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success:   true,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// Fail renders err as an error envelope and aborts the chain.
func Fail(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(appErr.Status, Response{
		Success:   false,
		Timestamp: timestamp(),
		Error: &ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

func toAppError(err error) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var formErr *complaint.ValidationError
	if errors.As(err, &formErr) {
		return apperror.Validation("Please fill in all required fields", formErr.Fields)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			name := strings.ToLower(fe.Field())
			fields[name] = name + " is invalid"
			if fe.Tag() == "required" {
				fields[name] = name + " is required"
			}
		}
		return apperror.Validation("Invalid input data", fields)
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperror.NotFound("resource", err)
	case errors.Is(err, complaint.ErrForbidden):
		return apperror.Forbidden("You are not allowed to access this complaint", err)
	case errors.Is(err, complaint.ErrNoStatusChange):
		return apperror.NoChange("The complaint already has this status", err)
	case errors.Is(err, complaint.ErrInvalidTransition), errors.Is(err, storage.ErrStaleStatus):
		return apperror.Conflict(err.Error(), err)
	case errors.Is(err, complaint.ErrUnknownStatus):
		return apperror.Validation("Unknown status", map[string]string{"status": "status is invalid"})
	case errors.Is(err, complaint.ErrEmptyComment):
		return apperror.Validation("Comment text is required", map[string]string{"text": "text is required"})
	case errors.Is(err, complaint.ErrGeolocationUnavailable):
		return apperror.GeolocationUnavailable("Unable to retrieve your location. Please enter manually.", err)
	case errors.Is(err, session.ErrInvalidCredentials):
		return apperror.Unauthorized("Invalid email or password", err)
	}
	return apperror.Internal("An unexpected error occurred", err)
}

// bindError turns a malformed request body into a validation error.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return err
	}
	return apperror.Validation("Invalid request body", nil)
}
