package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsivak487/emrgent-labs/internal/backend"
	"github.com/gsivak487/emrgent-labs/internal/content"
	"github.com/gsivak487/emrgent-labs/internal/model"
	"github.com/gsivak487/emrgent-labs/internal/render"
)

// fakeBackend is a stand-in for the portfolio API.
type fakeBackend struct {
	portfolio     string
	contactStatus int

	mu       sync.Mutex
	contacts []model.ContactForm
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/portfolio", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(b.portfolio))
	})
	mux.HandleFunc("POST /api/contact", func(w http.ResponseWriter, r *http.Request) {
		var form model.ContactForm
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		b.mu.Lock()
		b.contacts = append(b.contacts, form)
		b.mu.Unlock()
		w.WriteHeader(b.contactStatus)
	})
	return mux
}

func (b *fakeBackend) received() []model.ContactForm {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.ContactForm(nil), b.contacts...)
}

func newTestServer(t *testing.T, b *fakeBackend) *httptest.Server {
	t.Helper()
	api := httptest.NewServer(b.handler(t))
	t.Cleanup(api.Close)

	client, err := backend.New(api.URL, 5*time.Second)
	require.NoError(t, err)
	r, err := render.New("")
	require.NoError(t, err)

	s, err := New(Options{
		Source:   content.FromBackend(client),
		Sender:   client,
		Renderer: r,
		Site:     model.DefaultSite(),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func parse(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func postContact(t *testing.T, ts *httptest.Server, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.PostForm(ts.URL+"/", form)
	require.NoError(t, err)
	return resp
}

const portfolioJSON = `{
	"hero": {"title": "Emergent Labs", "subtitle": "Build with AI"},
	"services": {"id": "services", "title": "Core Services", "features": ["Apps", "Agents"]},
	"users": {"id": "users", "title": "Target Users"}
}`

func TestGetPage(t *testing.T) {
	ts := newTestServer(t, &fakeBackend{portfolio: portfolioJSON})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))

	doc := parse(t, resp)
	assert.Equal(t, "Emergent Labs", doc.Find("#hero h1").Text())
	assert.Equal(t, 2, doc.Find("section.feature").Length())
	assert.True(t, doc.Find("#users").HasClass("feature-reverse"))
	assert.Equal(t, "Send Message", doc.Find("#contact button").Text())
}

func TestGetPageEmpty(t *testing.T) {
	for name, body := range map[string]string{"null": "null", "empty body": ""} {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t, &fakeBackend{portfolio: body})
			resp, err := http.Get(ts.URL + "/")
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			doc := parse(t, resp)
			assert.Equal(t, "No portfolio data available", strings.TrimSpace(doc.Find(".loading-container").Text()))
			assert.Equal(t, 0, doc.Find("nav, section").Length())
		})
	}
}

func TestGetPageBackendDown(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer api.Close()

	client, err := backend.New(api.URL, time.Second)
	require.NoError(t, err)
	r, err := render.New("")
	require.NoError(t, err)
	s, err := New(Options{Source: content.FromBackend(client), Renderer: r, Site: model.DefaultSite()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No portfolio data available")
}

func TestMenuOpenQuery(t *testing.T) {
	ts := newTestServer(t, &fakeBackend{portfolio: portfolioJSON})

	resp, err := http.Get(ts.URL + "/?menu=open")
	require.NoError(t, err)
	doc := parse(t, resp)
	assert.True(t, doc.Find("#menu").HasClass("open"))
	assert.Equal(t, "/", doc.Find(".nav-toggle").AttrOr("href", ""))
	assert.Equal(t, "/#services", doc.Find(`#menu a:contains("Services")`).AttrOr("href", ""))

	// following the toggle or a menu link requests the page without the
	// open query, which renders the menu closed
	closed, err := http.Get(ts.URL + doc.Find(".nav-toggle").AttrOr("href", ""))
	require.NoError(t, err)
	after := parse(t, closed)
	assert.False(t, after.Find("#menu").HasClass("open"))
	assert.Equal(t, "#services", after.Find(`#menu a:contains("Services")`).AttrOr("href", ""))
}

func TestContactSuccess(t *testing.T) {
	b := &fakeBackend{portfolio: portfolioJSON, contactStatus: http.StatusOK}
	ts := newTestServer(t, b)

	resp := postContact(t, ts, url.Values{"name": {"A"}, "email": {"a@b.com"}, "message": {"hi"}, "phone": {"555"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	doc := parse(t, resp)

	assert.Equal(t, []model.ContactForm{{Name: "A", Email: "a@b.com", Message: "hi"}}, b.received())
	status := doc.Find("#contact .status")
	assert.Equal(t, "Thank you! Your message has been sent.", status.Text())
	assert.True(t, status.HasClass("status-ok"))
	assert.Equal(t, "", doc.Find(`input[name="name"]`).AttrOr("value", ""))
	assert.Equal(t, "", doc.Find(`textarea[name="message"]`).Text())
	assert.Equal(t, "Emergent Labs", doc.Find("#hero h1").Text())
}

func TestContactFailureKeepsFields(t *testing.T) {
	b := &fakeBackend{portfolio: portfolioJSON, contactStatus: http.StatusInternalServerError}
	ts := newTestServer(t, b)

	resp := postContact(t, ts, url.Values{"name": {"A"}, "email": {"a@b.com"}, "message": {"hi"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	doc := parse(t, resp)

	require.Len(t, b.received(), 1)
	status := doc.Find("#contact .status")
	assert.Equal(t, "Error sending message. Please try again.", status.Text())
	assert.True(t, status.HasClass("status-error"))
	assert.Equal(t, "A", doc.Find(`input[name="name"]`).AttrOr("value", ""))
	assert.Equal(t, "a@b.com", doc.Find(`input[name="email"]`).AttrOr("value", ""))
	assert.Equal(t, "hi", doc.Find(`textarea[name="message"]`).Text())
	assert.Equal(t, "Send Message", doc.Find("#contact button").Text())
}

func TestContactMissingField(t *testing.T) {
	b := &fakeBackend{portfolio: portfolioJSON, contactStatus: http.StatusOK}
	ts := newTestServer(t, b)

	resp := postContact(t, ts, url.Values{"name": {"A"}, "message": {"hi"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	doc := parse(t, resp)

	assert.Empty(t, b.received())
	assert.Equal(t, 0, doc.Find("#contact .status").Length())
	assert.Equal(t, "A", doc.Find(`input[name="name"]`).AttrOr("value", ""))
}

func TestContactWithoutSender(t *testing.T) {
	r, err := render.New("")
	require.NoError(t, err)
	src := content.SourceFunc(func(context.Context) (*model.ContentDocument, error) {
		return &model.ContentDocument{}, nil
	})
	s, err := New(Options{Source: src, Renderer: r, Site: model.DefaultSite()})
	require.NoError(t, err)

	form := url.Values{"name": {"A"}, "email": {"a@b.com"}, "message": {"hi"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error sending message. Please try again.")
}

func TestContactBodyTooLarge(t *testing.T) {
	r, err := render.New("")
	require.NoError(t, err)
	src := content.SourceFunc(func(context.Context) (*model.ContentDocument, error) { return nil, nil })
	s, err := New(Options{Source: src, Renderer: r, MaxFormBytes: 16})
	require.NoError(t, err)

	form := url.Values{"name": {"A"}, "email": {"a@b.com"}, "message": {strings.Repeat("x", 64)}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthzAndStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("extra"), 0o644))

	r, err := render.New("")
	require.NoError(t, err)
	src := content.SourceFunc(func(context.Context) (*model.ContentDocument, error) { return nil, nil })
	s, err := New(Options{Source: src, Renderer: r, StaticDir: dir})
	require.NoError(t, err)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/healthz", http.StatusOK, "ok"},
		{"/static/site.css", http.StatusOK, ".loading-container"},
		{"/static/extra.txt", http.StatusOK, "extra"},
		{"/static/missing.css", http.StatusNotFound, ""},
		{"/api/portfolio", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, tt.path)
		if tt.body != "" {
			assert.Contains(t, rec.Body.String(), tt.body, tt.path)
		}
	}
}

func TestNewRequiresSourceAndRenderer(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	src := content.SourceFunc(func(context.Context) (*model.ContentDocument, error) { return nil, nil })
	_, err = New(Options{Source: src})
	assert.Error(t, err)
}

func TestListenAndServeShutsDownOnCancel(t *testing.T) {
	r, err := render.New("")
	require.NoError(t, err)
	src := content.SourceFunc(func(context.Context) (*model.ContentDocument, error) { return nil, nil })
	s, err := New(Options{Source: src, Renderer: r})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe(ctx, "127.0.0.1:0", time.Second) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
