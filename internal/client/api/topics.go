package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/studynotes/internal/client/models"
)

// TopicGateway is the remote topic/note surface consumed by the notes view
// and the completion scheduler's fire handler.
type TopicGateway interface {
	MarkCompleted(ctx context.Context, topicID string) error
	ListNotes(ctx context.Context) ([]models.Note, error)
}

// MarkCompleted transitions a topic to the "completed" status.
func (c *Client) MarkCompleted(ctx context.Context, topicID string) error {
	payload := map[string]string{"status": string(models.TopicStatusCompleted)}
	return c.do(ctx, http.MethodPut, "/notes/topics/"+topicID+"/", payload, nil)
}

// notePayload is the wire form of a note; reading time arrives in minutes.
type notePayload struct {
	ID                 string             `json:"id"`
	TopicID            string             `json:"topic"`
	TopicTitle         string             `json:"topic_title"`
	Summary            string             `json:"summary"`
	Content            string             `json:"content"`
	KeyPoints          []string           `json:"key_points"`
	References         []string           `json:"references"`
	WordCount          int                `json:"word_count"`
	ReadingTimeMinutes int                `json:"reading_time_minutes"`
	TopicStatus        models.TopicStatus `json:"topic_status"`
}

func (p *notePayload) toModel() models.Note {
	return models.Note{
		ID:          p.ID,
		TopicID:     p.TopicID,
		TopicTitle:  p.TopicTitle,
		Summary:     p.Summary,
		Content:     p.Content,
		KeyPoints:   p.KeyPoints,
		References:  p.References,
		WordCount:   p.WordCount,
		ReadingTime: time.Duration(p.ReadingTimeMinutes) * time.Minute,
		TopicStatus: p.TopicStatus,
	}
}

// ListNotes fetches all of the user's generated notes. The backend returns
// either a paginated envelope with a "results" array or a bare array; both
// are accepted.
func (c *Client) ListNotes(ctx context.Context) ([]models.Note, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/notes/notes/", nil, &raw); err != nil {
		return nil, err
	}

	var payloads []notePayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		var envelope struct {
			Results []notePayload `json:"results"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, err
		}
		payloads = envelope.Results
	}

	notes := make([]models.Note, 0, len(payloads))
	for _, p := range payloads {
		notes = append(notes, p.toModel())
	}
	return notes, nil
}
