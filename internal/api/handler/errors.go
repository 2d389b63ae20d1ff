package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/utkandevrim/ac/pkg/errors"
	"github.com/utkandevrim/ac/pkg/response"
)

// Envelope codes. 0 is success.
const (
	codeValidation   = 10001
	codeUnauthorized = 10002
	codeForbidden    = 10003
	codeTooLarge     = 10005
	codeNotFound     = 10006
	codeConflict     = 10007
	codeBadRequest   = 10008
)

// handleError maps a service error onto the envelope by its kind. Anything
// unclassified is recorded on the context for the request logger and
// answered with a generic 500.
func handleError(c *gin.Context, err error) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		response.UnprocessableEntity(c, codeValidation, ve.Message, ve.Field+": "+ve.Rule)
		return
	}

	switch apperrors.KindOf(err) {
	case apperrors.ErrValidation:
		response.UnprocessableEntity(c, codeValidation, "validation failed", err.Error())
	case apperrors.ErrConflict:
		response.BadRequest(c, codeConflict, err.Error())
	case apperrors.ErrBadRequest:
		response.BadRequest(c, codeBadRequest, err.Error())
	case apperrors.ErrUnauthorized:
		response.Unauthorized(c, codeUnauthorized, err.Error())
	case apperrors.ErrForbidden:
		response.Forbidden(c, codeForbidden, err.Error())
	case apperrors.ErrNotFound:
		response.NotFound(c, codeNotFound, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindError answers a request-shape failure with 422, or 413 when the body
// limit was hit while reading.
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, codeTooLarge, "request body too large")
		return
	}
	response.UnprocessableEntity(c, codeValidation, "invalid request", err.Error())
}
