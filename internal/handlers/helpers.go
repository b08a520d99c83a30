package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// ErrorResponse is the error body, named for the API docs.
type ErrorResponse = apperrors.Response

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// getIdentity extracts the verified Identity attached by the auth middleware.
func getIdentity(c *gin.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(c.Request.Context())
	if !ok {
		return auth.Identity{}, apperrors.ErrMissingToken
	}
	return id, nil
}

// bindJSON decodes the request body into req and runs its binding rules.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindingError(err)
	}
	return nil
}

// bindingError turns a Gin binding failure into a VALIDATION_ERROR naming
// the offending fields.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field(), describeTag(fe)))
		}
		return apperrors.WithMessage(apperrors.ErrValidation, strings.Join(msgs, "; "))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s has the wrong type", typeErr.Field))
	}
	return apperrors.WithMessage(apperrors.ErrValidation, "Invalid request body")
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "habit_frequency":
		return "must be one of daily, weekly, monthly"
	case "calendar_date":
		return "must be a date (YYYY-MM-DD)"
	}
	return "is invalid"
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, apperrors.Response{Error: appErr.Message, Code: appErr.Code})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, apperrors.Response{
		Error: apperrors.ErrInternalServer.Message,
		Code:  apperrors.ErrInternalServer.Code,
	})
}
