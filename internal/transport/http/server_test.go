package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/bootstrap"
	"gopherai-tutor/internal/config"
	"gopherai-tutor/internal/prompt"
)

type stubGenerator struct {
	answer string
}

func (s stubGenerator) Generate(context.Context, string) (string, error) { return s.answer, nil }
func (s stubGenerator) ModelName() string                                { return "stub-model" }

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	cfg.App.GinMode = gin.TestMode
	cfg.LLM.APIKey = "test-key"
	cfg.Auth.SessionTokenSecret = "test-secret"

	tutor := app.NewTutorService(stubGenerator{answer: "The quadratic formula is x = (-b ± √(b²-4ac)) / 2a"},
		prompt.NewComposer("", 5, 2000), app.TutorConfig{}, nil)
	return NewRouter(&bootstrap.App{
		Config:    cfg,
		Tutor:     tutor,
		Sessions:  app.NewSessionService(tutor, app.SessionDeps{}, app.SessionServiceConfig{}, nil),
		StartedAt: time.Now(),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body []byte, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func createSession(t *testing.T, r *gin.Engine) (id, token string) {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/sessions", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		SessionID       string `json:"session_id"`
		Token           string `json:"token"`
		SelectedSubject string `json:"selected_subject"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Python Programming", data.SelectedSubject)
	return data.SessionID, data.Token
}

func TestAskFlow(t *testing.T) {
	r := newTestRouter(t)
	id, token := createSession(t, r)
	base := "/api/v1/sessions/" + id

	w, _ := do(t, r, http.MethodPut, base+"/subject", token, []byte(`{"name":"Basic Algebra"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodPost, base+"/ask", token, []byte(`{"question":"What is the quadratic formula?"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	var ask struct {
		Answer   string `json:"answer"`
		Outcome  string `json:"outcome"`
		Exchange struct {
			Subject string `json:"subject"`
		} `json:"exchange"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ask))
	assert.Contains(t, ask.Answer, "quadratic formula")
	assert.Equal(t, "succeeded", ask.Outcome)
	assert.Equal(t, "Basic Algebra", ask.Exchange.Subject)

	w, _ = do(t, r, http.MethodGet, base+"/export", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "tutor_session_")
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, float64(1), doc["total_questions"])

	w, env = do(t, r, http.MethodDelete, base+"/history", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chat history cleared!", env.Message)
}

func TestAskRejectsShortQuestion(t *testing.T) {
	r := newTestRouter(t)
	id, token := createSession(t, r)

	w, env := do(t, r, http.MethodPost, "/api/v1/sessions/"+id+"/ask", token, []byte(`{"question":"hi"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter a more detailed question.", env.Message)
}

func TestSessionRoutesRequireMatchingToken(t *testing.T) {
	r := newTestRouter(t)
	id, _ := createSession(t, r)
	_, otherToken := createSession(t, r)

	w, _ := do(t, r, http.MethodGet, "/api/v1/sessions/"+id, "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/sessions/"+id, otherToken, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubjectRoutes(t *testing.T) {
	r := newTestRouter(t)
	id, token := createSession(t, r)
	base := "/api/v1/sessions/" + id

	w, _ := do(t, r, http.MethodPost, base+"/subjects", token, []byte(`{"name":"Rust"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, base+"/subjects", token, []byte(`{"name":"Calculus"}`), "application/json")
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env := do(t, r, http.MethodGet, base+"/subjects", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var subjects []struct {
		Name        string `json:"name"`
		DisplayIcon string `json:"display_icon"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &subjects))
	require.Len(t, subjects, 6)
	assert.Equal(t, "Rust", subjects[5].Name)
	assert.Equal(t, "📚 ✨", subjects[5].DisplayIcon)

	w, _ = do(t, r, http.MethodDelete, base+"/subjects/Calculus", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPut, base+"/subject", token, []byte(`{"name":"Astrology"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReferenceUpload(t *testing.T) {
	r := newTestRouter(t)
	id, token := createSession(t, r)
	base := "/api/v1/sessions/" + id

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range []string{"notes.txt", "notes.txt"} {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("derivatives measure change"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	w, env := do(t, r, http.MethodPost, base+"/references", token, body.Bytes(), mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Processed 1 file(s)", env.Message)

	w, env = do(t, r, http.MethodGet, base+"/references", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var refs []struct {
		Name   string `json:"name"`
		Format string `json:"format"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &refs))
	require.Len(t, refs, 1)
	assert.Equal(t, "text/plain", refs[0].Format)

	w, _ = do(t, r, http.MethodDelete, base+"/references/missing.txt", token, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w, _ := do(t, r, http.MethodGet, "/healthz", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		LLM struct {
			Model string `json:"model"`
		} `json:"llm"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "stub-model", body.LLM.Model)
}
