package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nhan10132020/filmlist/internal/auth"
	"github.com/nhan10132020/filmlist/internal/data"
	"github.com/nhan10132020/filmlist/internal/jsonlog"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	recipient    string
	templateFile string
	data         interface{}
}

type stubMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *stubMailer) Send(recipient, templateFile string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, sentEmail{recipient, templateFile, data})
	return nil
}

func newTestApplication(t *testing.T) (*application, *stubMailer) {
	t.Helper()

	var cfg config
	cfg.env = "testing"
	cfg.db.driver = "sqlite"
	cfg.db.dsn = ":memory:?_foreign_keys=on"
	cfg.db.maxOpenConns = 1
	cfg.db.maxIdleConns = 1
	cfg.db.maxIdleTime = "15m"
	cfg.jwt.secret = "test-secret"
	cfg.jwt.ttl = time.Hour
	cfg.storage.backend = "local"
	cfg.storage.dir = t.TempDir()
	cfg.pageSize = 2

	db, sqlDB, err := openDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store, err := openStore(cfg)
	require.NoError(t, err)

	mailer := &stubMailer{}

	app := &application{
		config: cfg,
		logger: jsonlog.New(io.Discard, jsonlog.LevelOff),
		models: data.NewModels(db),
		mailer: mailer,
		store:  store,
	}

	return app, mailer
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// do sends a request with an optional JSON body and bearer token and decodes
// the JSON response into a generic map.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}

	return res.StatusCode, out
}

// newActivatedUser inserts an activated user holding both film permissions
// and returns a bearer token for it.
func newActivatedUser(t *testing.T, app *application, email string) (*data.User, string) {
	t.Helper()

	user := &data.User{Name: "Test User", Email: email, Activated: true}
	require.NoError(t, user.Password.Set("pa55word1"))
	require.NoError(t, app.models.Users.Insert(user))
	require.NoError(t, app.models.Permissions.AddForUser(user.ID, data.PermissionFilmsRead, data.PermissionFilmsWrite))

	token, _, err := auth.GenerateToken(user.ID, []byte(app.config.jwt.secret), time.Hour)
	require.NoError(t, err)

	return user, token
}

// entryView is the JSON shape of a list entry.
type entryView struct {
	ID    int64
	Order int
	Name  string
	Photo string
}

func entriesFrom(t *testing.T, body map[string]interface{}, key string) []entryView {
	t.Helper()

	raw, ok := body[key].([]interface{})
	require.True(t, ok, "missing %q in %v", key, body)

	views := make([]entryView, 0, len(raw))
	for _, item := range raw {
		views = append(views, entryFrom(t, item))
	}
	return views
}

func entryFrom(t *testing.T, item interface{}) entryView {
	t.Helper()

	m, ok := item.(map[string]interface{})
	require.True(t, ok)
	film, ok := m["film"].(map[string]interface{})
	require.True(t, ok)

	view := entryView{
		ID:    int64(m["id"].(float64)),
		Order: int(m["order"].(float64)),
		Name:  film["name"].(string),
	}
	if url, ok := film["photo_url"].(string); ok {
		view.Photo = url
	}
	return view
}

func names(entries []entryView) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}
