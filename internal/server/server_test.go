package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyfix/internal/corrector"
	"keyfix/pkg/options"
)

// memStore is an in-memory WordStore.
type memStore struct {
	mu    sync.Mutex
	words map[string]bool
	fail  error
}

func newMemStore(words ...string) *memStore {
	m := &memStore{words: map[string]bool{}}
	for _, w := range words {
		m.words[w] = true
	}
	return m
}

func (m *memStore) Add(_ context.Context, w string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.words[w] = true
	return nil
}

func (m *memStore) Remove(_ context.Context, w string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	delete(m.words, w)
	return nil
}

func (m *memStore) All(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]string, 0, len(m.words))
	for w := range m.words {
		out = append(out, w)
	}
	slices.Sort(out)
	return out, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, store WordStore) *Server {
	t.Helper()
	cfg := Config{MaxBatchItems: 3, MaxBodyBytes: 4096, Logger: quietLogger()}
	if store != nil {
		cfg.Store = store
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_HealthHandler(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{"GET request success", http.MethodGet, http.StatusOK},
		{"POST request not allowed", http.MethodPost, http.StatusMethodNotAllowed},
		{"preflight", http.MethodOptions, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, "/health", "")
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	w := do(t, h, http.MethodGet, "/health", "")
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Layout)
	assert.NotEmpty(t, resp.Time)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestServer_Fix(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	w := do(t, h, http.MethodPost, "/api/v1/fix", `{"text":"akuo"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp FixResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "שלום", resp.Text)
	assert.Equal(t, corrector.StateAccepted, resp.State)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, w.Header().Get("X-Request-ID"))

	w = do(t, h, http.MethodPost, "/api/v1/fix", `{"text":"hello"}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, corrector.StateRejected, resp.State)
}

func TestServer_RequestIDPropagates(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clean", strings.NewReader(`{"text":"a  b"}`))
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp CleanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc-123", resp.RequestID)
	assert.Equal(t, "a b", resp.Text)
}

func TestServer_BadRequests(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"wrong method", http.MethodGet, "/api/v1/fix", "", http.StatusMethodNotAllowed},
		{"malformed json", http.MethodPost, "/api/v1/fix", `{"text":`, http.StatusBadRequest},
		{"blank text", http.MethodPost, "/api/v1/analyze", `{"text":"   "}`, http.StatusBadRequest},
		{"too large", http.MethodPost, "/api/v1/clean", `{"text":"` + strings.Repeat("a", 5000) + `"}`, http.StatusRequestEntityTooLarge},
		{"empty batch", http.MethodPost, "/api/v1/batch", `{"texts":[]}`, http.StatusBadRequest},
		{"batch too large", http.MethodPost, "/api/v1/batch", `{"texts":["a","b","c","d"]}`, http.StatusBadRequest},
		{"unknown operation", http.MethodPost, "/api/v1/batch", `{"texts":["a"],"operation":"spellcheck"}`, http.StatusBadRequest},
		{"store disabled", http.MethodPost, "/api/v1/custom-word", `{"word":"x"}`, http.StatusServiceUnavailable},
		{"unknown route", http.MethodGet, "/api/v2/fix", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusNotFound {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp["error"])
			}
		})
	}
}

func TestServer_Analyze(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	w := do(t, h, http.MethodPost, "/api/v1/analyze", `{"text":"hello world!!!!"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, corrector.LangEnglish, resp.Verdict.Primary)
	ops := make([]corrector.Operation, len(resp.Suggestions))
	for i, sg := range resp.Suggestions {
		ops[i] = sg.Operation
	}
	assert.Equal(t, []corrector.Operation{corrector.OpCleanup}, ops)
	assert.Equal(t, corrector.OpCleanup, resp.Best)
}

func TestServer_Batch(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	w := do(t, h, http.MethodPost, "/api/v1/batch", `{"texts":["akuo","hello","tbh"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, corrector.OpLayoutFix, resp.Operation)
	assert.Equal(t, 3, resp.Count)
	assert.Zero(t, resp.Failed)
	outs := make([]string, len(resp.Results))
	for i, r := range resp.Results {
		outs[i] = r.Output
	}
	assert.Equal(t, []string{"שלום", "hello", "אני"}, outs)

	w = do(t, h, http.MethodPost, "/api/v1/batch", `{"texts":["a"],"operation":"translate"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, corrector.OpTranslation, resp.Operation)
	assert.Equal(t, 1, resp.Failed)
	assert.NotEmpty(t, resp.Results[0].Error)
}

func TestServer_CustomWords(t *testing.T) {
	store := newMemStore()
	s := newTestServer(t, store)
	h := s.Handler()

	before := s.Engine()
	assert.Equal(t, "שלום", before.FixLayout("akuo"))

	w := do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":"  AKUO "}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp WordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "akuo", resp.Word)

	after := s.Engine()
	assert.NotSame(t, before, after)
	assert.Equal(t, "akuo", after.FixLayout("akuo"))
	assert.Equal(t, "שלום", before.FixLayout("akuo"), "old snapshot is immutable")

	w = do(t, h, http.MethodGet, "/api/v1/custom-word", "")
	var list WordsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, []string{"akuo"}, list.Words)

	w = do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":" "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodDelete, "/api/v1/custom-word/akuo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "שלום", s.Engine().FixLayout("akuo"))

	w = do(t, h, http.MethodDelete, "/api/v1/custom-word/", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/custom-word/akuo", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_StoreFailures(t *testing.T) {
	store := newMemStore("akuo")
	store.fail = errors.New("connection refused")

	s := newTestServer(t, store)
	assert.Equal(t, "שלום", s.Engine().FixLayout("akuo"), "starts without custom words")

	w := do(t, s.Handler(), http.MethodPost, "/api/v1/custom-word", `{"word":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	store.mu.Lock()
	store.fail = nil
	store.mu.Unlock()
	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, "akuo", s.Engine().FixLayout("akuo"))
}

func TestServer_BuildErrorIsFatal(t *testing.T) {
	_, err := NewServer(Config{
		Logger: quietLogger(),
		Build: func([]string) (*corrector.Engine, error) {
			return nil, corrector.ErrInvalidConfig
		},
	})
	assert.ErrorIs(t, err, corrector.ErrInvalidConfig)
}

func TestServer_Metrics(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	do(t, h, http.MethodPost, "/api/v1/fix", `{"text":"akuo"}`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "keyfix_http_requests_total")
	assert.Contains(t, w.Body.String(), `keyfix_fixes_total{state="accepted"}`)
}

func TestServer_WebSocket(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, nil).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	exchange := func(req string) map[string]any {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(req)))
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(data, &resp))
		return resp
	}

	resp := exchange(`{"type":"fix","text":"akuo","request_id":"r1"}`)
	assert.Equal(t, "fix", resp["type"])
	assert.Equal(t, "r1", resp["request_id"])
	assert.Equal(t, "שלום", resp["result"].(map[string]any)["text"])

	resp = exchange(`{"type":"analyze","text":"שלום עולם"}`)
	assert.NotEmpty(t, resp["request_id"])
	assert.Equal(t, "hebrew", resp["result"].(map[string]any)["verdict"].(map[string]any)["primary"])

	resp = exchange(`{"type":"clean","text":"hi!!!"}`)
	assert.Equal(t, "hi!", resp["result"].(map[string]any)["text"])

	resp = exchange(`{"type":"translate","text":"x"}`)
	assert.Equal(t, "error", resp["type"])

	resp = exchange(`not json`)
	assert.Equal(t, "error", resp["type"])
}

func TestServer_HandleWebSocketMessageWriter(t *testing.T) {
	s := newTestServer(t, nil)
	var buf recordingConn
	s.handleWebSocketMessage(&buf, []byte(`{"type":"fix","text":"יקךךם"}`))
	require.Len(t, buf.msgs, 1)
	assert.Contains(t, string(buf.msgs[0]), `"text":"hello"`)
}

type recordingConn struct{ msgs [][]byte }

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	c.msgs = append(c.msgs, bytes.Clone(data))
	return nil
}

func TestServer_WatchLexicon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.txt")
	require.NoError(t, os.WriteFile(path, []byte("# extra words\n"), 0o644))

	s, err := NewServer(Config{
		Logger: quietLogger(),
		Build: func(words []string) (*corrector.Engine, error) {
			return corrector.NewEngine(corrector.DefaultConfig(),
				options.WithLexiconFiles(path),
				options.WithExtraWords(words...),
				options.WithLogger(quietLogger()))
		},
	})
	require.NoError(t, err)
	assert.False(t, s.Engine().Lexicon().Known("quokka"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.WatchLexicon(ctx, []string{path}))

	require.NoError(t, os.WriteFile(path, []byte("# extra words\nquokka 12\n"), 0o644))
	assert.Eventually(t, func() bool {
		return s.Engine().Lexicon().Known("quokka")
	}, 5*time.Second, 50*time.Millisecond)
}

func TestServer_WatchLexiconMissingDir(t *testing.T) {
	s := newTestServer(t, nil)
	err := s.WatchLexicon(context.Background(), []string{filepath.Join(t.TempDir(), "nope", "x.txt")})
	assert.Error(t, err)
	assert.NoError(t, s.WatchLexicon(context.Background(), nil))
}

func TestServer_AdminRoutes(t *testing.T) {
	s := newTestServer(t, newMemStore("akuo"))
	mux := http.NewServeMux()
	s.SetupAdminRoutes(mux)

	assert.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/api/v1/custom-word", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodPost, "/api/v1/fix", `{"text":"akuo"}`).Code)
}
