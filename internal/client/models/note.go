package models

import "time"

// TopicStatus enumerates the lifecycle of a study topic on the backend.
type TopicStatus string

const (
	TopicStatusPending    TopicStatus = "pending"
	TopicStatusGenerating TopicStatus = "generating"
	TopicStatusReady      TopicStatus = "ready"
	TopicStatusCompleted  TopicStatus = "completed"
	TopicStatusFailed     TopicStatus = "failed"
)

// Topic is a study topic whose note is generated remotely.
type Topic struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Subject    string      `json:"subject"`
	Difficulty string      `json:"difficulty"`
	Status     TopicStatus `json:"status"`
}

// Note is a generated study note. ReadingTime is how long the user is
// expected to keep the note on screen before its topic counts as completed.
type Note struct {
	ID          string        `json:"id"`
	TopicID     string        `json:"topic"`
	TopicTitle  string        `json:"topic_title"`
	Summary     string        `json:"summary"`
	Content     string        `json:"content"`
	KeyPoints   []string      `json:"key_points"`
	References  []string      `json:"references"`
	WordCount   int           `json:"word_count"`
	ReadingTime time.Duration `json:"-"`
	TopicStatus TopicStatus   `json:"topic_status"`
}
