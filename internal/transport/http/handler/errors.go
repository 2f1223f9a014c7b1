package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/reference"
	"gopherai-tutor/internal/subject"
	"gopherai-tutor/internal/transport/http/response"
)

// writeError maps domain sentinels to the response envelope. Anything
// unrecognised becomes a 500 carrying fallback instead of the raw error.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
	case errors.Is(err, app.ErrQuestionEmpty),
		errors.Is(err, app.ErrQuestionTooShort),
		errors.Is(err, app.ErrQuestionTooLong):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidQuestion, app.ValidationMessage(err))
	case errors.Is(err, subject.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSubjectNotFound, err.Error())
	case errors.Is(err, subject.ErrAlreadyExists):
		response.Error(c, http.StatusConflict, response.CodeSubjectExists, err.Error())
	case errors.Is(err, subject.ErrEmptyName), errors.Is(err, subject.ErrBuiltin):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidSubject, err.Error())
	case errors.Is(err, reference.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeReferenceNotFound, err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
