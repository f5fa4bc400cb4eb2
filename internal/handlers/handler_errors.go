package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bukubesar/bukubesar/internal/apperrors"
)

// statusForError maps service-layer sentinel errors onto HTTP status codes.
// Validation failures are 400, missing resources 404, state conflicts 409,
// integrity breaches 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnbalancedEntry),
		errors.Is(err, apperrors.ErrInsufficientLines),
		errors.Is(err, apperrors.ErrDuplicateCode),
		errors.Is(err, apperrors.ErrOverlappingPeriod),
		errors.Is(err, apperrors.ErrOverpayment):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAlreadyPosted),
		errors.Is(err, apperrors.ErrNotPosted),
		errors.Is(err, apperrors.ErrAlreadyReversed),
		errors.Is(err, apperrors.ErrImmutableEntry),
		errors.Is(err, apperrors.ErrPeriodLocked),
		errors.Is(err, apperrors.ErrPeriodClosed),
		errors.Is(err, apperrors.ErrSystemAccount),
		errors.Is(err, apperrors.ErrHasTransactions):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bindingErrorMessage turns a request-binding failure into a client-facing
// message, naming the offending fields when the failure came from struct
// validation.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request format"
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "Invalid request: " + strings.Join(fields, ", ")
}

// clientMessage returns the error text for client-visible statuses and a
// generic message for internal failures, keeping storage details out of
// responses.
func clientMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
