package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnemet/slidescope/internal/normalize"
)

func sampleDoc() *normalize.Document {
	return &normalize.Document{
		PresentationID: "p1",
		Title:          "Quarterly Review",
		Slides: []normalize.Slide{
			{
				SlideNumber: 1,
				SlideID:     "s1",
				TextContent: []normalize.TextRun{{ObjectID: "t1", Text: "Agenda"}},
				Images:      []normalize.ImageRef{{ObjectID: "i1", ContentURL: "https://example.com/a.png"}},
				Shapes:      []normalize.ShapeRef{{ObjectID: "r1", Kind: "RECTANGLE"}},
			},
			{
				SlideNumber:  2,
				SlideID:      "s2",
				TextContent:  []normalize.TextRun{{ObjectID: "t2", Text: "Numbers"}},
				SpeakerNotes: "mention churn",
			},
		},
	}
}

func TestJSONSinkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDoc()

	path, err := (&JSONSink{Dir: dir}).Write(doc)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "slides_content_p1.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded normalize.Document
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Equal(t, doc.Title, loaded.Title)
	require.Len(t, loaded.Slides, 2)
	require.Equal(t, "Agenda", loaded.Slides[0].TextContent[0].Text)
	require.Equal(t, "mention churn", loaded.Slides[1].SpeakerNotes)
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleDoc())
	require.Contains(t, md, "# Quarterly Review")
	require.Contains(t, md, "## Slide 1 (s1)")
	require.Contains(t, md, "Agenda")
	require.Contains(t, md, "> Notes: mention churn")
	require.Contains(t, md, "![i1](https://example.com/a.png)")
	require.Contains(t, md, "Other elements: RECTANGLE")
}

func TestRenderMarkdownUntitled(t *testing.T) {
	md := RenderMarkdown(&normalize.Document{PresentationID: "p2"})
	require.Contains(t, md, "# Untitled")
}

func TestHTMLSink(t *testing.T) {
	dir := t.TempDir()
	path, err := (&HTMLSink{Dir: dir}).Write(sampleDoc())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	require.Contains(t, html, "<title>Quarterly Review</title>")
	require.Contains(t, html, "<h1>Quarterly Review</h1>")
	require.Contains(t, html, "Numbers")
}

func TestNewSinkUnknownFormat(t *testing.T) {
	_, err := NewSink("pdf", t.TempDir())
	require.Error(t, err)
}
