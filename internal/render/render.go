// Package render turns a Page into HTML using the embedded layouts, or
// overrides of them from a layouts directory on disk.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	baseLayout = "base.html"
	homeLayout = "home.html"
	partialDir = "partials"
)

//go:embed layouts
var layoutsFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded static assets, rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer executes the page layouts. It is safe for concurrent use;
// Reload swaps the parsed templates atomically.
type Renderer struct {
	layoutsDir string
	markdown   *Markdown

	mu   sync.RWMutex
	tmpl *template.Template
}

// New parses the layouts. A non-empty layoutsDir may hold files with the
// same relative names as the embedded layouts (base.html, home.html,
// partials/*.html); those replace the embedded ones.
func New(layoutsDir string) (*Renderer, error) {
	r := &Renderer{layoutsDir: layoutsDir, markdown: NewMarkdown()}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// LayoutsDir is the override directory, or "" when only embedded layouts are used.
func (r *Renderer) LayoutsDir() string { return r.layoutsDir }

// Reload re-reads and re-parses every layout. On error the previously
// parsed templates stay in use.
func (r *Renderer) Reload() error {
	names, err := layoutNames()
	if err != nil {
		return err
	}

	t := template.New("_root").Funcs(template.FuncMap{
		"markdown": r.markdown.Render,
		"title":    titleCase,
	})
	for _, name := range names {
		src, err := r.readLayout(name)
		if err != nil {
			return err
		}
		if _, err := t.New(name).Parse(string(src)); err != nil {
			return fmt.Errorf("failed to parse layout %s: %w", name, err)
		}
	}
	if t.Lookup(homeLayout) == nil {
		return fmt.Errorf("homepage layout %q not found", homeLayout)
	}

	r.mu.Lock()
	r.tmpl = t
	r.mu.Unlock()
	return nil
}

// Render writes the page. Nothing is written to w if execution fails.
func (r *Renderer) Render(w io.Writer, p Page) error {
	r.mu.RLock()
	t := r.tmpl
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, baseLayout, p); err != nil {
		return fmt.Errorf("failed to execute layout %s: %w", baseLayout, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// layoutNames lists the embedded layouts in parse order: base first, then
// partials, then home, so that home's definitions win.
func layoutNames() ([]string, error) {
	var partials []string
	err := fs.WalkDir(layoutsFS, "layouts", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		rel := strings.TrimPrefix(p, "layouts/")
		if strings.HasPrefix(rel, partialDir+"/") {
			partials = append(partials, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	sort.Strings(partials)

	names := append([]string{baseLayout}, partials...)
	return append(names, homeLayout), nil
}

// readLayout prefers the override on disk and falls back to the embedded copy.
func (r *Renderer) readLayout(name string) ([]byte, error) {
	if r.layoutsDir != "" {
		src, err := os.ReadFile(filepath.Join(r.layoutsDir, filepath.FromSlash(name)))
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read layout override %s: %w", name, err)
		}
	}
	src, err := layoutsFS.ReadFile(path.Join("layouts", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", name, err)
	}
	return src, nil
}
