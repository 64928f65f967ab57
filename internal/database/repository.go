package database

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/gnemet/slidescope/internal/normalize"
)

type Presentation struct {
	ID             int       `json:"id"`
	PresentationID string    `json:"presentation_id"`
	Title          string    `json:"title"`
	SlideCount     int       `json:"slide_count"`
	AISummary      string    `json:"ai_summary"`
	CreatedAt      time.Time `json:"created_at"`
}

type PresentationSlide struct {
	ID              int             `json:"id"`
	PresentationRef int             `json:"presentation_ref"`
	SlideNum        int             `json:"slide_number"`
	SlideID         string          `json:"slide_id"`
	Content         string          `json:"content"`
	SpeakerNotes    string          `json:"speaker_notes"`
	Images          json.RawMessage `json:"images"`
	Shapes          json.RawMessage `json:"shapes"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SaveDocument upserts the presentation row and replaces its slides. Returns
// the presentations row id.
func SaveDocument(db *sql.DB, doc *normalize.Document) (int, error) {
	query := `
		INSERT INTO presentations (presentation_id, title, slide_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (presentation_id)
		DO UPDATE SET title = EXCLUDED.title, slide_count = EXCLUDED.slide_count
		RETURNING id
	`
	var id int
	err := db.QueryRow(query, doc.PresentationID, doc.Title, len(doc.Slides)).Scan(&id)
	if err != nil {
		return 0, err
	}

	// Replace slides so re-extraction stays idempotent
	if _, err := db.Exec("DELETE FROM presentation_slides WHERE presentation_ref = $1", id); err != nil {
		return 0, err
	}

	for _, slide := range doc.Slides {
		var texts []string
		for _, run := range slide.TextContent {
			texts = append(texts, run.Text)
		}
		images, _ := json.Marshal(slide.Images)
		shapes, _ := json.Marshal(slide.Shapes)

		_, err := db.Exec(`
			INSERT INTO presentation_slides (presentation_ref, slide_number, slide_id, content, speaker_notes, images, shapes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, slide.SlideNumber, slide.SlideID, strings.Join(texts, "\n"), slide.SpeakerNotes, images, shapes)
		if err != nil {
			return 0, err
		}
	}

	return id, nil
}

func UpdateSummary(db *sql.DB, id int, summary string) error {
	_, err := db.Exec("UPDATE presentations SET ai_summary = $1 WHERE id = $2", summary, id)
	return err
}

func GetPresentation(db *sql.DB, presentationID string) (*Presentation, error) {
	var p Presentation
	query := "SELECT id, presentation_id, title, slide_count, ai_summary, created_at FROM presentations WHERE presentation_id = $1"
	err := db.QueryRow(query, presentationID).Scan(&p.ID, &p.PresentationID, &p.Title, &p.SlideCount, &p.AISummary, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func GetSlides(db *sql.DB, presentationRef int) ([]PresentationSlide, error) {
	rows, err := db.Query("SELECT id, presentation_ref, slide_number, slide_id, content, speaker_notes, images, shapes, created_at FROM presentation_slides WHERE presentation_ref = $1 ORDER BY slide_number", presentationRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slides []PresentationSlide
	for rows.Next() {
		var s PresentationSlide
		if err := rows.Scan(&s.ID, &s.PresentationRef, &s.SlideNum, &s.SlideID, &s.Content, &s.SpeakerNotes, &s.Images, &s.Shapes, &s.CreatedAt); err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, rows.Err()
}

func GetTotalSlideCount(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM presentation_slides").Scan(&count)
	return count, err
}
