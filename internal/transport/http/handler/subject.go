package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/transport/http/middleware"
	"gopherai-tutor/internal/transport/http/response"
)

type SubjectHandler struct {
	sessions *app.SessionService
}

type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description" binding:"max=512"`
	Context     string `json:"context" binding:"max=2000"`
	Icon        string `json:"icon" binding:"max=16"`
}

type SelectSubjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type subjectView struct {
	model.Subject
	DisplayIcon string `json:"display_icon"`
	Selected    bool   `json:"selected"`
}

func NewSubjectHandler(sessions *app.SessionService) *SubjectHandler {
	return &SubjectHandler{sessions: sessions}
}

func (h *SubjectHandler) List(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err, "list subjects failed")
		return
	}

	selected := sess.Selected().Name
	subjects := sess.Subjects()
	out := make([]subjectView, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, subjectView{
			Subject:     s,
			DisplayIcon: sess.DisplayIcon(s.Name),
			Selected:    s.Name == selected,
		})
	}
	response.OK(c, out)
}

func (h *SubjectHandler) Create(c *gin.Context) {
	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	created, err := h.sessions.RegisterSubject(c.Request.Context(), middleware.SessionID(c), req.Name, req.Description, req.Context, req.Icon)
	if err != nil {
		writeError(c, err, "register subject failed")
		return
	}
	response.OK(c, created)
}

func (h *SubjectHandler) Delete(c *gin.Context) {
	selected, err := h.sessions.RemoveSubject(c.Request.Context(), middleware.SessionID(c), c.Param("name"))
	if err != nil {
		writeError(c, err, "remove subject failed")
		return
	}
	response.OK(c, gin.H{
		"deleted_subject":  c.Param("name"),
		"selected_subject": selected.Name,
	})
}

func (h *SubjectHandler) Select(c *gin.Context) {
	var req SelectSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	selected, err := h.sessions.SelectSubject(c.Request.Context(), middleware.SessionID(c), req.Name)
	if err != nil {
		writeError(c, err, "select subject failed")
		return
	}
	response.OK(c, selected)
}
