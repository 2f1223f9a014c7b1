package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/pkg/sessiontoken"
	"gopherai-tutor/internal/transport/http/middleware"
	"gopherai-tutor/internal/transport/http/response"
)

type SessionHandler struct {
	sessions    *app.SessionService
	tokenSecret string
	tokenTTL    time.Duration
}

type sessionView struct {
	SessionID       string        `json:"session_id"`
	SelectedSubject model.Subject `json:"selected_subject"`
	DisplayIcon     string        `json:"display_icon"`
	Questions       int           `json:"questions"`
	References      []string      `json:"references"`
	CreatedAt       time.Time     `json:"created_at"`
}

func NewSessionHandler(sessions *app.SessionService, tokenSecret string, tokenTTL time.Duration) *SessionHandler {
	return &SessionHandler{
		sessions:    sessions,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
	}
}

func (h *SessionHandler) Create(c *gin.Context) {
	sess, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		writeError(c, err, "create session failed")
		return
	}

	token, err := sessiontoken.Generate(h.tokenSecret, h.tokenTTL, sess.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "issue session token failed")
		return
	}

	response.OK(c, gin.H{
		"session_id":       sess.ID,
		"token":            token,
		"selected_subject": sess.Selected().Name,
	})
}

func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err, "load session failed")
		return
	}

	selected := sess.Selected()
	docs := sess.References()
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	response.OK(c, sessionView{
		SessionID:       sess.ID,
		SelectedSubject: selected,
		DisplayIcon:     sess.DisplayIcon(selected.Name),
		Questions:       sess.HistoryLen(),
		References:      names,
		CreatedAt:       sess.CreatedAt,
	})
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id := middleware.SessionID(c)
	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "delete session failed")
		return
	}
	response.OK(c, gin.H{"deleted_session_id": id})
}
