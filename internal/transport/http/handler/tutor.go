package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/conversation"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/transport/http/middleware"
	"gopherai-tutor/internal/transport/http/response"
)

type TutorHandler struct {
	sessions *app.SessionService
}

type AskRequest struct {
	Question string `json:"question"`
	// Subject overrides the selected subject for this question only.
	Subject string `json:"subject"`
}

type historyItem struct {
	model.Exchange
	FormattedTime string `json:"formatted_time"`
}

func NewTutorHandler(sessions *app.SessionService) *TutorHandler {
	return &TutorHandler{sessions: sessions}
}

func (h *TutorHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	out, err := h.sessions.Ask(c.Request.Context(), middleware.SessionID(c), req.Question, req.Subject)
	if err != nil {
		writeError(c, err, "ask failed")
		return
	}
	response.OK(c, out)
}

func (h *TutorHandler) History(c *gin.Context) {
	exchanges, err := h.sessions.History(c.Request.Context(), middleware.SessionID(c), c.Query("subject"))
	if err != nil {
		writeError(c, err, "load history failed")
		return
	}

	out := make([]historyItem, 0, len(exchanges))
	for _, e := range exchanges {
		out = append(out, historyItem{Exchange: e, FormattedTime: conversation.FormatTimestamp(e.Timestamp)})
	}
	response.OK(c, out)
}

func (h *TutorHandler) ClearHistory(c *gin.Context) {
	if err := h.sessions.ClearHistory(c.Request.Context(), middleware.SessionID(c)); err != nil {
		writeError(c, err, "clear history failed")
		return
	}
	response.OKWithMessage(c, h.sessions.Tutor().Messages().ChatCleared, nil)
}

func (h *TutorHandler) Stats(c *gin.Context) {
	stats, err := h.sessions.Stats(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err, "load stats failed")
		return
	}
	response.OK(c, stats)
}

func (h *TutorHandler) Export(c *gin.Context) {
	data, name, err := h.sessions.Export(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err, "export failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/json", data)
}
