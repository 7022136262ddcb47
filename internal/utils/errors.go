package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"fletes/pkg/logger"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidID         = "INVALID_ID"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicate         = "DUPLICATE_KEY"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeConflict          = "CONFLICT"
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
	CodeInternal          = "INTERNAL_ERROR"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidID         = errors.New("invalid object id")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("concurrent update")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

// AppError carries the HTTP status and user-facing message for a service failure.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: resource + " no encontrado", Err: ErrNotFound}
}

func BadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: message}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("No se puede cambiar el estado de %s a %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

func Conflict() *AppError {
	return &AppError{Status: http.StatusConflict, Code: CodeConflict, Message: ErrConflictMessage, Err: ErrConflict}
}

func Forbidden() *AppError {
	return &AppError{Status: http.StatusForbidden, Code: CodeForbidden, Message: ErrForbiddenMessage, Err: ErrForbidden}
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = ErrUnauthorizedMessage
	}
	return &AppError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message, Err: ErrUnauthorized}
}

func Validation(details map[string]string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidation, Message: ErrValidationFailed, Details: details}
}

func Unavailable(message string) *AppError {
	return &AppError{Status: http.StatusServiceUnavailable, Code: CodeUnavailable, Message: message}
}

// detailer is implemented by validators.ValidationErrors.
type detailer interface {
	Details() map[string]string
}

// HandleError writes the response for err. Unknown errors become 500 and are logged.
func HandleError(c *gin.Context, log *logger.Logger, err error) {
	var appErr *AppError
	var det detailer
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &appErr):
		if appErr.Details != nil {
			ErrorResponseWithDetails(c, appErr.Status, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		ErrorResponse(c, appErr.Status, appErr.Code, appErr.Message)
	case errors.As(err, &det):
		ValidationErrorResponse(c, det.Details())
	case errors.As(err, &verrs):
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		ValidationErrorResponse(c, details)
	case errors.Is(err, ErrInvalidID):
		ErrorResponse(c, http.StatusBadRequest, CodeInvalidID, ErrInvalidIDMessage)
	case errors.Is(err, ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, CodeNotFound, "Registro no encontrado")
	case mongo.IsDuplicateKeyError(err):
		ErrorResponse(c, http.StatusBadRequest, CodeDuplicate, ErrDuplicateMessage)
	case errors.Is(err, ErrInvalidTransition):
		ErrorResponse(c, http.StatusBadRequest, CodeInvalidTransition, err.Error())
	case errors.Is(err, ErrConflict):
		ErrorResponse(c, http.StatusConflict, CodeConflict, ErrConflictMessage)
	case errors.Is(err, ErrUnauthorized):
		UnauthorizedResponse(c)
	case errors.Is(err, ErrForbidden):
		ForbiddenResponse(c)
	default:
		if log != nil {
			log.WithRequestID(c.GetString(ContextRequestID)).
				WithField("path", c.FullPath()).
				WithError(err).
				Error("Unhandled request error")
		}
		InternalServerErrorResponse(c)
	}
}
