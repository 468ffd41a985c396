package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/studynotes/internal/client/models"
	"github.com/dmitrijs2005/studynotes/internal/client/scheduler"
)

// ShowNotes fetches the user's notes, renders the list, and re-arms the
// completion timers for every note on screen. Leaving a note visible for
// its full reading time marks the topic completed; viewing the list again
// restarts every note's clock, exactly like the notes screen it mirrors.
func (a *App) ShowNotes(ctx context.Context) error {
	notes, err := a.topics.ListNotes(ctx)
	if err != nil {
		a.sink.Error(fmt.Sprintf("Failed to load notes: %v", err))
		return err
	}

	a.notesMu.Lock()
	a.notes = notes
	a.notesMu.Unlock()

	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes yet. Generate notes for your topics to see them here.")
		return nil
	}

	for i, n := range notes {
		status := ""
		if n.TopicStatus == models.TopicStatusCompleted {
			status = " [completed]"
		}
		fmt.Fprintf(a.out, "%2d. %s (%s read, %d words)%s\n",
			i+1, n.TopicTitle, n.ReadingTime, n.WordCount, status)
		if n.Summary != "" {
			fmt.Fprintf(a.out, "    %s\n", n.Summary)
		}
	}

	a.armCompletionTimers(notes)
	return nil
}

// armCompletionTimers replaces the armed timer set with one per note that
// is not yet completed.
func (a *App) armCompletionTimers(notes []models.Note) {
	armed := make([]scheduler.ArmedNote, 0, len(notes))
	for _, n := range notes {
		if n.TopicStatus == models.TopicStatusCompleted {
			continue
		}
		armed = append(armed, scheduler.ArmedNote{
			NoteID:   n.ID,
			TopicID:  n.TopicID,
			Required: n.ReadingTime,
		})
	}
	a.sched.Arm(armed, a.handleCompletion)
}

// handleCompletion is the scheduler's fire handler: mark the topic
// completed remotely, patch the cached note, and tell the user. A gateway
// error is logged and the timer stays consumed; there is no retry.
func (a *App) handleCompletion(ctx context.Context, noteID, topicID string) {
	if err := a.topics.MarkCompleted(ctx, topicID); err != nil {
		a.log.Error(ctx, "error marking topic as completed",
			"topic", topicID, "note", noteID, "error", err)
		return
	}

	title := topicID
	a.notesMu.Lock()
	for i := range a.notes {
		if a.notes[i].ID == noteID {
			a.notes[i].TopicStatus = models.TopicStatusCompleted
			title = a.notes[i].TopicTitle
			break
		}
	}
	a.notesMu.Unlock()

	a.sink.Success(fmt.Sprintf("Marked %q as completed!", title))
}

// ShowNote renders one note in full, selected by its list position.
func (a *App) ShowNote(ctx context.Context) error {
	idx, err := getSimpleText(a.reader, "Note number", a.out)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil {
		fmt.Fprintln(a.out, "Not a number:", idx)
		return nil
	}

	a.notesMu.Lock()
	notes := a.notes
	a.notesMu.Unlock()

	if n < 1 || n > len(notes) {
		fmt.Fprintln(a.out, "No such note. Run 'notes' first.")
		return nil
	}

	note := notes[n-1]
	fmt.Fprintf(a.out, "\n%s\n%s\n\n", note.TopicTitle, strings.Repeat("=", len(note.TopicTitle)))
	if note.Summary != "" {
		fmt.Fprintf(a.out, "Summary: %s\n\n", note.Summary)
	}
	for _, p := range note.KeyPoints {
		fmt.Fprintf(a.out, "  - %s\n", p)
	}
	if len(note.KeyPoints) > 0 {
		fmt.Fprintln(a.out)
	}
	fmt.Fprintln(a.out, note.Content)
	for _, ref := range note.References {
		fmt.Fprintf(a.out, "  ref: %s\n", ref)
	}
	return nil
}
