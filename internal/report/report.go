// Package report persists normalized presentation content to disk in JSON,
// Markdown or HTML form.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gnemet/slidescope/internal/normalize"
)

// Sink writes one normalized document and returns the path it was written to.
type Sink interface {
	Write(doc *normalize.Document) (string, error)
}

// NewSink returns the sink for the given format (json, md, html).
func NewSink(format, outputDir string) (Sink, error) {
	switch format {
	case "", "json":
		return &JSONSink{Dir: outputDir}, nil
	case "md", "markdown":
		return &MarkdownSink{Dir: outputDir}, nil
	case "html":
		return &HTMLSink{Dir: outputDir}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// JSONSink writes slides_content_<id>.json with two-space indentation.
type JSONSink struct {
	Dir string
}

func (s *JSONSink) Write(doc *normalize.Document) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("slides_content_%s.json", doc.PresentationID))
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
