package chat

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethanbaker/chatwidget/internal/gateway"
	"github.com/ethanbaker/chatwidget/pkg/sdk"
	"github.com/ethanbaker/chatwidget/pkg/transcript"
	"github.com/ethanbaker/chatwidget/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	segments []string
	err      error
	calls    int
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Generate(ctx context.Context, prompt gateway.Prompt) iter.Seq2[string, error] {
	s.calls++
	return func(yield func(string, error) bool) {
		for _, seg := range s.segments {
			if !yield(seg, nil) {
				return
			}
		}
		if s.err != nil {
			yield("", s.err)
		}
	}
}

func setup(t *testing.T, backend *stubBackend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	SetGateway(gateway.New(backend, nil))

	engine := gin.New()
	RegisterRoutes(engine.Group("/api"))
	return engine
}

func post(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestPostChat(t *testing.T) {
	backend := &stubBackend{segments: []string{"Use ", "salt."}}
	engine := setup(t, backend)

	rec := post(engine, "/api/chat", `{"message":"How do I season steak?","history":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res sdk.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Use salt.", res.Response)
	assert.Equal(t, []string{"Use ", "salt."}, res.Chunks)
	require.Len(t, res.History, 4)
	assert.Equal(t, transcript.NewTurn(transcript.Assistant, "Use salt."), res.History[3])
	assert.NoError(t, transcript.Validate(res.History))
}

func TestPostChatContinues(t *testing.T) {
	backend := &stubBackend{segments: []string{"Yes."}}
	engine := setup(t, backend)

	body := `{"message":"Really?","history":[
		{"role":"user","text":"Hi"},
		{"role":"model","text":"How can I help you today?"},
		{"role":"user","text":"Is basil a herb?"},
		{"role":"model","text":"It is."}]}`
	rec := post(engine, "/api/chat", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var res sdk.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.History, 6)
}

func TestPostChatReseedsMalformedHistory(t *testing.T) {
	tests := []struct {
		name    string
		history string
	}{
		{"unknown role", `[{"role":"system","text":"x"},{"role":"user","text":"y"}]`},
		{"missing role", `[{"text":"x"},{"role":"model","text":"y"}]`},
		{"broken alternation", `[{"role":"model","text":"Hello"},{"role":"model","text":"again"}]`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			backend := &stubBackend{segments: []string{"Fresh start."}}
			engine := setup(t, backend)

			rec := post(engine, "/api/chat", `{"message":"hi","history":`+test.history+`}`)
			require.Equal(t, http.StatusOK, rec.Code)

			var res sdk.ChatResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, transcript.Transcript{
				transcript.NewTurn(transcript.User, "Hi"),
				transcript.NewTurn(transcript.Assistant, "How can I help you today?"),
				transcript.NewTurn(transcript.User, "hi"),
				transcript.NewTurn(transcript.Assistant, "Fresh start."),
			}, res.History)
			assert.Equal(t, 1, backend.calls)
		})
	}
}

func TestPostChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		backend *stubBackend
		body    string
		code    int
		message string
		calls   int
	}{
		{
			name:    "unparsable body",
			backend: &stubBackend{},
			body:    `{"message":`,
			code:    http.StatusBadRequest,
			message: MsgBadBody,
		},
		{
			name:    "empty message",
			backend: &stubBackend{},
			body:    `{"message":"  ","history":[]}`,
			code:    http.StatusBadRequest,
			message: MsgMissingMessage,
		},
		{
			name:    "missing message",
			backend: &stubBackend{},
			body:    `{"history":[]}`,
			code:    http.StatusBadRequest,
			message: MsgMissingMessage,
		},
		{
			name:    "backend failure",
			backend: &stubBackend{err: errors.New("quota exceeded for key abc")},
			body:    `{"message":"hello"}`,
			code:    http.StatusInternalServerError,
			message: MsgProcessingError,
			calls:   1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			engine := setup(t, test.backend)
			rec := post(engine, "/api/chat", test.body)

			assert.Equal(t, test.code, rec.Code)
			assert.JSONEq(t, `{"error":"`+test.message+`"}`, rec.Body.String())
			assert.Equal(t, test.calls, test.backend.calls)
		})
	}
}

func TestPostSuggestions(t *testing.T) {
	backend := &stubBackend{segments: []string{`["Try rosemary", "Try thyme"]`}}
	engine := setup(t, backend)

	rec := post(engine, "/api/chat/suggestions", `{"message":"What herbs go with lamb?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"suggestions":["Try rosemary","Try thyme"]}`, rec.Body.String())
}

func TestPostSuggestionsFailure(t *testing.T) {
	engine := setup(t, &stubBackend{err: errors.New("boom")})

	rec := post(engine, "/api/chat/suggestions", `{"message":"lamb"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"`+MsgProcessingError+`"}`, rec.Body.String())
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		want    string
		wantErr bool
	}{
		{
			name:   "openai compatible",
			values: map[string]string{"CHAT_BACKEND": "openai", "GEMINI_API_KEY": "k"},
			want:   "openai/gemini-1.5-flash",
		},
		{
			name:   "gemini native",
			values: map[string]string{"CHAT_BACKEND": "Gemini", "GEMINI_API_KEY": "k", "CHAT_MODEL": "gemini-x"},
			want:   "gemini/gemini-x",
		},
		{
			name:    "missing key",
			values:  map[string]string{"CHAT_BACKEND": "openai"},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			values:  map[string]string{"CHAT_BACKEND": "carrier-pigeon", "GEMINI_API_KEY": "k"},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			backend, err := NewBackend(context.Background(), utils.NewConfig(test.values))
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, backend.Name())
		})
	}
}
