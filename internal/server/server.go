// Package server serves the portfolio page over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gsivak487/emrgent-labs/internal/content"
	"github.com/gsivak487/emrgent-labs/internal/logging"
	"github.com/gsivak487/emrgent-labs/internal/model"
	"github.com/gsivak487/emrgent-labs/internal/render"
	"github.com/gsivak487/emrgent-labs/internal/view"
)

// ErrNoSender is the delivery failure reported when no backend is configured
// to receive contact messages.
var ErrNoSender = errors.New("no contact endpoint configured")

// DefaultMaxFormBytes bounds a contact submission.
const DefaultMaxFormBytes = 64 << 10

// Options configures a Server. Source and Renderer are required.
type Options struct {
	Source   content.Source
	Sender   view.Sender
	Renderer *render.Renderer
	Site     model.SiteData
	// StaticDir holds assets that take priority over the embedded ones.
	StaticDir    string
	MaxFormBytes int64
	Logger       *slog.Logger
}

// Server renders the portfolio page for each request.
type Server struct {
	src      content.Source
	sender   view.Sender
	renderer *render.Renderer
	site     model.SiteData
	static   fs.FS
	logger   *slog.Logger
	router   chi.Router
}

func New(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("server: a content source is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("server: a renderer is required")
	}
	if opts.Sender == nil {
		opts.Sender = noSender{}
	}
	if opts.MaxFormBytes <= 0 {
		opts.MaxFormBytes = DefaultMaxFormBytes
	}

	static := render.Static()
	if opts.StaticDir != "" {
		static = overlayFS{upper: os.DirFS(opts.StaticDir), lower: static}
	}

	s := &Server{
		src:      opts.Source,
		sender:   opts.Sender,
		renderer: opts.Renderer,
		site:     opts.Site,
		static:   static,
		logger:   logging.OrDiscard(opts.Logger),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logRequest(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders(DefaultHeaders()))
	r.Use(MaxFormBody(opts.MaxFormBytes))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	r.Get("/", s.handlePage)
	r.Post("/", s.handleContact)

	s.router = r
	return s, nil
}

// Handler is the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// handlePage renders the page after a load bound to the request.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, view.ContactSnapshot{})
}

// handleContact runs one contact submission with the posted fields, then
// renders the page with the outcome under the form.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	c := view.NewContact(s.sender, s.logger)
	defer c.Dispose()
	for _, field := range []string{model.FieldName, model.FieldEmail, model.FieldMessage} {
		if err := c.Set(field, r.PostForm.Get(field)); err != nil {
			s.logger.Error("failed to set contact field", "field", field, "error", err)
		}
	}

	status := http.StatusOK
	if err := c.Submit(r.Context()); errors.Is(err, view.ErrMissingField) {
		s.logger.Info("contact form rejected", "error", err)
		status = http.StatusBadRequest
	}
	s.writePage(w, r, status, c.Snapshot())
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, contact view.ContactSnapshot) {
	loader := view.NewLoader(s.src, s.logger)
	defer loader.Dispose()

	nav := view.NewNav()
	if r.URL.Query().Get(view.MenuAnchor) == "open" {
		nav.Toggle()
	}

	page := render.Page{
		Site:    s.site,
		Load:    loader.Load(r.Context()),
		Contact: contact,
		Nav:     nav.Snapshot(),
	}
	if r.Context().Err() != nil {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := s.renderer.Render(w, page); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down within
// shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type noSender struct{}

func (noSender) SendContact(context.Context, model.ContactForm) error { return ErrNoSender }

// overlayFS serves files from upper when present there, else from lower.
type overlayFS struct {
	upper, lower fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.upper.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.lower.Open(name)
}
