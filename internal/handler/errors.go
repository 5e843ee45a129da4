package handler

import (
	"errors"
	"net/http"

	"backend/internal/service"
	"backend/internal/workflow"
)

// statusFor maps service and workflow errors to HTTP status codes so
// every handler reports policy violations consistently.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDuplicateOrderNumber):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrWrongStage),
		errors.Is(err, workflow.ErrWrongDepartment),
		errors.Is(err, workflow.ErrOwnRequest):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrFinished),
		errors.Is(err, workflow.ErrUnknownStatus),
		errors.Is(err, workflow.ErrInvalidAction),
		errors.Is(err, workflow.ErrApproveAtProcurement),
		errors.Is(err, workflow.ErrNoteRequired),
		errors.Is(err, workflow.ErrNoteTooLong),
		errors.Is(err, workflow.ErrItemStageClosed),
		errors.Is(err, workflow.ErrItemReasonRequired),
		errors.Is(err, workflow.ErrNotAtProcurement),
		errors.Is(err, workflow.ErrInvalidProcurementStatus),
		errors.Is(err, workflow.ErrProcurementNoteRequired),
		errors.Is(err, service.ErrInvalidCurrency),
		errors.Is(err, service.ErrNotAnExcelFile),
		errors.Is(err, service.ErrEmptySheet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
