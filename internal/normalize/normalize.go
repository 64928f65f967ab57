// Package normalize flattens the nested presentation tree returned by the
// Slides API into a stable record suitable for serialization. Normalization
// is best-effort: structurally unexpected elements are recorded as opaque
// shapes, never treated as errors.
package normalize

import (
	"strings"

	"google.golang.org/api/slides/v1"
)

// notesPlaceholder is the boilerplate Google inserts into empty notes pages.
const notesPlaceholder = "Click to add speaker notes"

type Document struct {
	PresentationID string  `json:"presentation_id"`
	Title          string  `json:"title"`
	Slides         []Slide `json:"slides"`
}

type Slide struct {
	SlideNumber  int        `json:"slide_number"`
	SlideID      string     `json:"slide_id"`
	TextContent  []TextRun  `json:"text_content"`
	SpeakerNotes string     `json:"speaker_notes"`
	Images       []ImageRef `json:"images"`
	Shapes       []ShapeRef `json:"shapes"`
}

type TextRun struct {
	ObjectID string `json:"object_id"`
	Text     string `json:"text"`
}

type ImageRef struct {
	ObjectID   string `json:"object_id"`
	ContentURL string `json:"content_url"`
}

// ShapeRef records a page element that carries neither a text body nor an
// image reference. Only the object ID and a kind tag are kept.
type ShapeRef struct {
	ObjectID string `json:"object_id"`
	Kind     string `json:"kind"`
}

type elementKind int

const (
	kindText elementKind = iota
	kindImage
	kindOther
)

func classify(el *slides.PageElement) elementKind {
	switch {
	case el.Shape != nil && el.Shape.Text != nil:
		return kindText
	case el.Image != nil:
		return kindImage
	default:
		return kindOther
	}
}

// shapeKind derives the opaque type tag for non-text, non-image elements.
func shapeKind(el *slides.PageElement) string {
	switch {
	case el.ElementGroup != nil:
		return "group"
	case el.Table != nil:
		return "table"
	case el.Video != nil:
		return "video"
	case el.Line != nil:
		return "line"
	case el.WordArt != nil:
		return "wordArt"
	case el.SheetsChart != nil:
		return "sheetsChart"
	case el.Shape != nil:
		if el.Shape.ShapeType != "" {
			return el.Shape.ShapeType
		}
		return "shape"
	default:
		return "unknown"
	}
}

// elementText concatenates every text run inside the element's text body in
// source order, with no added separators, and trims surrounding whitespace.
func elementText(el *slides.PageElement) string {
	if el.Shape == nil || el.Shape.Text == nil {
		return ""
	}
	var b strings.Builder
	for _, te := range el.Shape.Text.TextElements {
		if te.TextRun != nil {
			b.WriteString(te.TextRun.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

// speakerNotes extracts the slide's notes text. The notes page may hold
// several text shapes; the last non-placeholder text wins.
func speakerNotes(slide *slides.Page) string {
	if slide.SlideProperties == nil || slide.SlideProperties.NotesPage == nil {
		return ""
	}
	notes := ""
	for _, el := range slide.SlideProperties.NotesPage.PageElements {
		text := elementText(el)
		if text != "" && !strings.Contains(text, notesPlaceholder) {
			notes = text
		}
	}
	return notes
}

// Normalize walks the presentation into a flat Document. Slide order and
// on-page element order are preserved. Missing or malformed sub-fields
// degrade to empty values.
func Normalize(pres *slides.Presentation) *Document {
	doc := &Document{
		PresentationID: pres.PresentationId,
		Title:          pres.Title,
		Slides:         []Slide{},
	}

	for i, page := range pres.Slides {
		if page == nil {
			continue
		}
		slide := Slide{
			SlideNumber: i + 1,
			SlideID:     page.ObjectId,
			TextContent: []TextRun{},
			Images:      []ImageRef{},
			Shapes:      []ShapeRef{},
		}

		for _, el := range page.PageElements {
			if el == nil {
				continue
			}
			switch classify(el) {
			case kindText:
				if text := elementText(el); text != "" {
					slide.TextContent = append(slide.TextContent, TextRun{
						ObjectID: el.ObjectId,
						Text:     text,
					})
				}
			case kindImage:
				slide.Images = append(slide.Images, ImageRef{
					ObjectID:   el.ObjectId,
					ContentURL: el.Image.ContentUrl,
				})
			default:
				slide.Shapes = append(slide.Shapes, ShapeRef{
					ObjectID: el.ObjectId,
					Kind:     shapeKind(el),
				})
			}
		}

		slide.SpeakerNotes = speakerNotes(page)
		doc.Slides = append(doc.Slides, slide)
	}

	return doc
}

// Summary holds the aggregate counters shown after an extraction.
type Summary struct {
	SlideCount      int
	TextBlocks      int
	Images          int
	SlidesWithNotes int
}

func Summarize(doc *Document) Summary {
	s := Summary{SlideCount: len(doc.Slides)}
	for _, slide := range doc.Slides {
		s.TextBlocks += len(slide.TextContent)
		s.Images += len(slide.Images)
		if slide.SpeakerNotes != "" {
			s.SlidesWithNotes++
		}
	}
	return s
}

// Preview returns the first text found on the first slide, truncated to
// limit characters, for the access summary shown before full extraction.
func Preview(doc *Document, limit int) string {
	if len(doc.Slides) == 0 || len(doc.Slides[0].TextContent) == 0 {
		return ""
	}
	text := doc.Slides[0].TextContent[0].Text
	if limit > 0 && len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

// DeckText joins every text block in the document, slide by slide, for
// consumers that want the whole deck as one string (e.g. summarization).
func DeckText(doc *Document) string {
	var parts []string
	for _, slide := range doc.Slides {
		for _, run := range slide.TextContent {
			parts = append(parts, run.Text)
		}
	}
	return strings.Join(parts, "\n")
}
