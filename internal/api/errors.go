package api

import (
	"net/http"

	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/internal/transcript"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{errors.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
	{errors.ErrSessionConflict, http.StatusConflict, "SESSION_CONFLICT"},
	{errors.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT"},
	{errors.ErrDecodeFailed, http.StatusUnprocessableEntity, "DECODE_FAILED"},
	{errors.ErrHeaderNotFound, http.StatusUnprocessableEntity, "HEADER_NOT_FOUND"},
	{errors.ErrRequiredColumnMissing, http.StatusUnprocessableEntity, "REQUIRED_COLUMN_MISSING"},
	{errors.ErrEmptyData, http.StatusUnprocessableEntity, "EMPTY_DATA"},
	{errors.ErrNoValidCourses, http.StatusUnprocessableEntity, "NO_VALID_COURSES"},
	{errors.ErrInvalidGrade, http.StatusUnprocessableEntity, "INVALID_GRADE"},
	{errors.ErrPassNonPassNotAllowed, http.StatusUnprocessableEntity, "PASS_NON_PASS_NOT_ALLOWED"},
	{errors.ErrDuplicateSelection, http.StatusUnprocessableEntity, "DUPLICATE_SELECTION"},
	{errors.ErrNoSelection, http.StatusUnprocessableEntity, "NO_SELECTION"},
	{errors.ErrSlotOutOfRange, http.StatusBadRequest, "SLOT_OUT_OF_RANGE"},
	{errors.ErrCourseNotEligible, http.StatusUnprocessableEntity, "COURSE_NOT_ELIGIBLE"},
	{errors.ErrCourseNotFound, http.StatusNotFound, "COURSE_NOT_FOUND"},
}

// statusFor maps an error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}

	var validationErr errors.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED"
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// errorDetails exposes the structured fields of typed errors.
func errorDetails(err error) interface{} {
	var slotErr errors.SlotError
	if errors.As(err, &slotErr) {
		return gin.H{"slot": slotErr.Slot, "course_id": slotErr.CourseID, "grade": slotErr.Grade}
	}

	var dupErr errors.DuplicateSelectionError
	if errors.As(err, &dupErr) {
		return gin.H{"course_id": dupErr.CourseID, "slots": dupErr.Slots}
	}

	var columnErr errors.RequiredColumnError
	if errors.As(err, &columnErr) {
		return gin.H{"column": columnErr.Column}
	}

	var validationErr errors.ValidationError
	if errors.As(err, &validationErr) {
		return gin.H{"field": validationErr.Field, "value": validationErr.Value}
	}

	if errors.Is(err, errors.ErrUnsupportedFormat) {
		return gin.H{"supported": transcript.SupportedExtensions()}
	}

	return nil
}

func (h *Handler) respondError(c *gin.Context, err error, details interface{}) {
	status, code := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		message = "Internal server error"
	}

	if details == nil {
		details = errorDetails(err)
	}

	c.JSON(status, model.ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: code, Message: message})
}
