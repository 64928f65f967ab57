package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/gnemet/slidescope/internal/normalize"
)

// RenderMarkdown produces the Markdown view of a normalized document: a
// title header and one section per slide with text, notes and media listings.
func RenderMarkdown(doc *normalize.Document) string {
	var b strings.Builder

	title := doc.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	for _, slide := range doc.Slides {
		fmt.Fprintf(&b, "## Slide %d (%s)\n\n", slide.SlideNumber, slide.SlideID)

		for _, run := range slide.TextContent {
			fmt.Fprintf(&b, "%s\n\n", run.Text)
		}

		if slide.SpeakerNotes != "" {
			fmt.Fprintf(&b, "> Notes: %s\n\n", slide.SpeakerNotes)
		}

		for _, img := range slide.Images {
			fmt.Fprintf(&b, "![%s](%s)\n\n", img.ObjectID, img.ContentURL)
		}

		if len(slide.Shapes) > 0 {
			var kinds []string
			for _, sh := range slide.Shapes {
				kinds = append(kinds, sh.Kind)
			}
			fmt.Fprintf(&b, "*Other elements: %s*\n\n", strings.Join(kinds, ", "))
		}
	}

	return b.String()
}

type MarkdownSink struct {
	Dir string
}

func (s *MarkdownSink) Write(doc *normalize.Document) (string, error) {
	path := filepath.Join(s.Dir, fmt.Sprintf("slides_content_%s.md", doc.PresentationID))
	if err := writeFile(path, []byte(RenderMarkdown(doc))); err != nil {
		return "", err
	}
	return path, nil
}

// HTMLSink renders the Markdown view to a standalone HTML page.
type HTMLSink struct {
	Dir string
}

func (s *HTMLSink) Write(doc *normalize.Document) (string, error) {
	body := blackfriday.Run([]byte(RenderMarkdown(doc)))

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", htmlEscape(doc.Title))
	b.WriteString("</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")

	path := filepath.Join(s.Dir, fmt.Sprintf("slides_content_%s.html", doc.PresentationID))
	if err := writeFile(path, []byte(b.String())); err != nil {
		return "", err
	}
	return path, nil
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
