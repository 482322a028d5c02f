// Package content provides the places a ContentDocument can be loaded from:
// the backend API, or a local file for offline builds and previews.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v2"

	"github.com/gsivak487/emrgent-labs/internal/model"
)

// Source yields the content document for one page load. A nil document with
// a nil error means the source answered with nothing.
type Source interface {
	Load(ctx context.Context) (*model.ContentDocument, error)
}

// Fetcher is the part of the backend client a Source needs.
type Fetcher interface {
	FetchPortfolio(ctx context.Context) (*model.ContentDocument, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*model.ContentDocument, error)

func (f SourceFunc) Load(ctx context.Context) (*model.ContentDocument, error) { return f(ctx) }

// FromBackend reads the document from the backend's portfolio endpoint.
func FromBackend(f Fetcher) Source {
	return SourceFunc(f.FetchPortfolio)
}

// ErrUnsupportedFormat is returned for file extensions FileSource cannot read.
var ErrUnsupportedFormat = errors.New("unsupported content file format")

// FileSource reads the document from a file on disk on every Load.
// Supported formats: .json, .yaml/.yml, and .md with YAML front matter.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*model.ContentDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("error reading content file %s: %w", s.Path, err)
	}
	doc, err := Decode(filepath.Ext(s.Path), data)
	if err != nil {
		return nil, fmt.Errorf("error decoding content file %s: %w", s.Path, err)
	}
	return doc, nil
}

// Decode parses data according to the file extension ext.
func Decode(ext string, data []byte) (*model.ContentDocument, error) {
	var doc *model.ContentDocument
	switch strings.ToLower(ext) {
	case ".json":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case ".md", ".markdown":
		return decodeMarkdown(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return doc, nil
}

// decodeMarkdown reads the sections from the front matter. A non-blank body
// becomes the hero description when the hero has none of its own.
func decodeMarkdown(data []byte) (*model.ContentDocument, error) {
	var doc model.ContentDocument
	body, err := frontmatter.MustParse(bytes.NewReader(data), &doc)
	if errors.Is(err, frontmatter.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(string(body))
	if text != "" && doc.Hero != nil && doc.Hero.Description == "" {
		doc.Hero.Description = text
	}
	return &doc, nil
}
