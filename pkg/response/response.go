package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Error Codes
type ErrCode string

var (
	FAILED_REQUEST    ErrCode = "REQUEST_FAILED"
	BAD_REQUEST       ErrCode = "FAILED_TO_DECODE"
	VALIDATION_FAILED ErrCode = "VALIDATION_FAILED"
	NOT_FOUND         ErrCode = "NOT_FOUND"
	LOCKED            ErrCode = "LOCKED"
	SCHEDULE_CONFLICT ErrCode = "SCHEDULE_CONFLICT"
	SESSION_EXISTS    ErrCode = "SESSION_EXISTS"
	SESSION_EXPIRED   ErrCode = "SESSION_EXPIRED"
	NO_ACTIVE_SESSION ErrCode = "NO_ACTIVE_SESSION"
	EMPTY_ROSTER      ErrCode = "EMPTY_ROSTER"
	ALREADY_MARKED    ErrCode = "ALREADY_MARKED"
	NOT_ENROLLED      ErrCode = "NOT_ENROLLED"
)

var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("resource not found")
	ErrLocked           = errors.New("resource is locked")
	ErrInvalidDay       = errors.New("invalid day name")
	ErrScheduleConflict = errors.New("schedule conflict")
	ErrSessionExists    = errors.New("attendance session already exists")
	ErrSessionExpired   = errors.New("attendance session has expired")
	ErrNoActiveSession  = errors.New("no active attendance session found")
	ErrEmptyRoster      = errors.New("class has no enrolled students")
	ErrAlreadyMarked    = errors.New("attendance already marked")
	ErrNotEnrolled      = errors.New("student is not enrolled in class")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsg []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is required", err.Field()))
		case "min":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' must be at least %s", err.Field(), err.Param()))
		case "max":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' must be at most %s", err.Field(), err.Param()))
		case "oneof":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' must be one of: %s", err.Field(), err.Param()))
		default:
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is invalid", err.Field()))
		}
	}

	return Response{
		ResponseError: ResponseError{
			Code:    string(VALIDATION_FAILED),
			Message: strings.Join(errMsg, ", "),
		},
	}
}
