// Package scheduler arms per-note deferred timers that mark a topic
// completed once its note has stayed on screen for the required reading
// time.
//
// Timer sets are epoch-tagged: Arm replaces the whole set and bumps the
// epoch, so a callback from a superseded set observes a stale epoch and is
// a no-op. Note that re-arming therefore resets elapsed progress for every
// note, including notes unchanged across the two sets; this mirrors the
// behavior of the notes screen, which re-derives its timers whenever the
// list changes.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/studynotes/internal/logging"
)

// ArmedNote describes one note to track. Required is how long the note
// must remain visible before its topic counts as completed.
type ArmedNote struct {
	NoteID   string
	TopicID  string
	Required time.Duration
}

// FireFunc handles a timer expiry. It is invoked at most once per
// (epoch, note) pair, from the timer's own goroutine. Errors are the
// handler's to deal with; the timer is consumed either way.
type FireFunc func(ctx context.Context, noteID, topicID string)

// Scheduler owns the armed timer set. The zero value is not usable;
// construct with New.
type Scheduler struct {
	log logging.Logger

	mu     sync.Mutex
	epoch  uint64
	timers map[string]*time.Timer // noteID -> pending timer, current epoch only
}

func New(log logging.Logger) *Scheduler {
	return &Scheduler{
		log:    log,
		timers: make(map[string]*time.Timer),
	}
}

// Arm replaces the armed set with one timer per note. Any timers from the
// previous epoch are disarmed first, before the new set is created. Notes
// without a positive Required duration are skipped.
func (s *Scheduler) Arm(notes []ArmedNote, onFire FireFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarmLocked()
	epoch := s.epoch

	for _, note := range notes {
		if note.Required <= 0 {
			continue
		}
		note := note
		s.timers[note.NoteID] = time.AfterFunc(note.Required, func() {
			s.fire(epoch, note, onFire)
		})
	}

	s.log.Debug(context.Background(), "completion timers armed",
		"epoch", epoch, "count", len(s.timers))
}

// DisarmAll cancels every outstanding timer. Safe to call repeatedly; used
// on teardown and when the notes view goes away.
func (s *Scheduler) DisarmAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
}

// ArmedCount reports how many timers are still pending in the current set.
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// disarmLocked stops the current set and advances the epoch so that any
// callback already scheduled by the runtime sees itself as stale.
func (s *Scheduler) disarmLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[string]*time.Timer)
	s.epoch++
}

// fire consumes one (epoch, note) pair. A Stop that lost the race with the
// runtime still ends here, which is why the epoch is re-checked and the
// timer entry removed under the lock before the handler runs.
func (s *Scheduler) fire(epoch uint64, note ArmedNote, onFire FireFunc) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	if _, ok := s.timers[note.NoteID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.timers, note.NoteID)
	s.mu.Unlock()

	onFire(context.Background(), note.NoteID, note.TopicID)
}
