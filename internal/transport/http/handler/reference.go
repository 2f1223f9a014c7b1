package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/reference"
	"gopherai-tutor/internal/transport/http/middleware"
	"gopherai-tutor/internal/transport/http/response"
)

type ReferenceHandler struct {
	sessions       *app.SessionService
	maxUploadBytes int64
}

type referenceView struct {
	Name         string `json:"name"`
	Format       string `json:"format"`
	SizeBytes    int64  `json:"size_bytes"`
	SizeLabel    string `json:"size_label"`
	ExtractError string `json:"extract_error,omitempty"`
}

type ingestView struct {
	Name   string                 `json:"name"`
	Status reference.IngestStatus `json:"status"`
	Error  string                 `json:"error,omitempty"`
}

func NewReferenceHandler(sessions *app.SessionService, maxUploadBytes int64) *ReferenceHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &ReferenceHandler{sessions: sessions, maxUploadBytes: maxUploadBytes}
}

func (h *ReferenceHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeUploadTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes))
			return
		}
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files uploaded")
		return
	}

	files := make([]model.SourceFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		files = append(files, f)
	}

	result, err := h.sessions.IngestReferences(c.Request.Context(), middleware.SessionID(c), files)
	if err != nil {
		writeError(c, err, "ingest references failed")
		return
	}

	outcomes := make([]ingestView, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		v := ingestView{Name: o.Name, Status: o.Status}
		if o.Err != nil {
			v.Error = o.Err.Error()
		}
		outcomes = append(outcomes, v)
	}
	response.OKWithMessage(c, fmt.Sprintf("Processed %d file(s)", result.Processed), gin.H{
		"processed": result.Processed,
		"outcomes":  outcomes,
	})
}

func readUpload(fh *multipart.FileHeader) (model.SourceFile, error) {
	f, err := fh.Open()
	if err != nil {
		return model.SourceFile{}, fmt.Errorf("open upload %s failed: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return model.SourceFile{}, fmt.Errorf("read upload %s failed: %w", fh.Filename, err)
	}
	return model.SourceFile{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     data,
		Size:     fh.Size,
	}, nil
}

func (h *ReferenceHandler) List(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err, "list references failed")
		return
	}

	docs := sess.References()
	out := make([]referenceView, 0, len(docs))
	for _, d := range docs {
		out = append(out, referenceView{
			Name:         d.Name,
			Format:       d.Format,
			SizeBytes:    d.SizeBytes,
			SizeLabel:    fmt.Sprintf("%d bytes", d.SizeBytes),
			ExtractError: d.ExtractError,
		})
	}
	response.OK(c, out)
}

func (h *ReferenceHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.sessions.RemoveReference(c.Request.Context(), middleware.SessionID(c), name); err != nil {
		writeError(c, err, "remove reference failed")
		return
	}
	response.OK(c, gin.H{"deleted_reference": name})
}

func (h *ReferenceHandler) Clear(c *gin.Context) {
	if err := h.sessions.ClearReferences(c.Request.Context(), middleware.SessionID(c)); err != nil {
		writeError(c, err, "clear references failed")
		return
	}
	response.OK(c, gin.H{"references": 0})
}
