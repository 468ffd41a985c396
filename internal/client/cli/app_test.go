package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/studynotes/internal/client/api"
	"github.com/dmitrijs2005/studynotes/internal/client/models"
	"github.com/dmitrijs2005/studynotes/internal/client/scheduler"
	"github.com/dmitrijs2005/studynotes/internal/client/session"
	"github.com/dmitrijs2005/studynotes/internal/logging"
)

// ------------ helpers ------------

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func stubInputs(t *testing.T, texts []string, password []byte) func() {
	t.Helper()

	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(texts) {
			return "", io.EOF
		}
		s := texts[i]
		i++
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		return append([]byte(nil), password...), nil
	}
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

// memSink records notifications for assertions.
type memSink struct {
	successes []string
	errors    []string
}

func (s *memSink) Success(msg string) { s.successes = append(s.successes, msg) }
func (s *memSink) Error(msg string)   { s.errors = append(s.errors, msg) }

type fakeSession struct {
	state session.State

	loginEmail string
	loginPass  string
	loginErr   error

	regInput api.RegisterInput
	regErr   error

	logoutCalled bool

	patch    api.ProfilePatch
	patchErr error

	oldPass, newPass string
	passErr          error
}

func (f *fakeSession) Initialize(context.Context) error { return nil }
func (f *fakeSession) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPass = email, password
	return f.loginErr
}
func (f *fakeSession) Register(_ context.Context, input api.RegisterInput) error {
	f.regInput = input
	return f.regErr
}
func (f *fakeSession) Logout(context.Context) { f.logoutCalled = true }
func (f *fakeSession) UpdateProfile(_ context.Context, patch api.ProfilePatch) error {
	f.patch = patch
	return f.patchErr
}
func (f *fakeSession) ChangePassword(_ context.Context, oldPassword, newPassword string) error {
	f.oldPass, f.newPass = oldPassword, newPassword
	return f.passErr
}
func (f *fakeSession) Subscribe(func(session.State)) func() { return func() {} }
func (f *fakeSession) CurrentState() session.State          { return f.state }

type fakeTopics struct {
	notes   []models.Note
	listErr error

	completedID string
	markErr     error
	marked      chan string
}

func (f *fakeTopics) ListNotes(context.Context) ([]models.Note, error) {
	return f.notes, f.listErr
}
func (f *fakeTopics) MarkCompleted(_ context.Context, topicID string) error {
	f.completedID = topicID
	if f.marked != nil {
		f.marked <- topicID
	}
	return f.markErr
}

func newTestApp(s sessionAPI, tg api.TopicGateway) (*App, *memSink, *bytes.Buffer) {
	sink := &memSink{}
	out := &bytes.Buffer{}
	return &App{
		session: s,
		topics:  tg,
		sched:   scheduler.New(testLogger()),
		sink:    sink,
		log:     testLogger(),
		reader:  readerFromLines(),
		out:     out,
	}, sink, out
}

// ------------ auth flows ------------

func TestLogin_Success(t *testing.T) {
	f := &fakeSession{}
	a, sink, _ := newTestApp(f, &fakeTopics{})

	restore := stubInputs(t, []string{"alice@example.org"}, []byte("secret"))
	defer restore()

	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "alice@example.org", f.loginEmail)
	require.Equal(t, "secret", f.loginPass)
	require.Equal(t, []string{"Login successful!"}, sink.successes)
}

func TestLogin_FailureNotified(t *testing.T) {
	f := &fakeSession{loginErr: errors.New("invalid credentials")}
	a, sink, _ := newTestApp(f, &fakeTopics{})

	restore := stubInputs(t, []string{"alice@example.org"}, []byte("wrong"))
	defer restore()

	require.Error(t, a.Login(context.Background()))
	require.Len(t, sink.errors, 1)
	require.Contains(t, sink.errors[0], "Login failed")
}

func TestRegister_Success(t *testing.T) {
	f := &fakeSession{}
	a, sink, _ := newTestApp(f, &fakeTopics{})

	restore := stubInputs(t, []string{"bob@example.org", "Bob", "Jones"}, []byte("secret"))
	defer restore()

	require.NoError(t, a.Register(context.Background()))
	require.Equal(t, "bob@example.org", f.regInput.Email)
	require.Equal(t, "Bob", f.regInput.FirstName)
	require.Equal(t, "Jones", f.regInput.LastName)
	require.Equal(t, "secret", f.regInput.Password)
	require.Equal(t, []string{"Registration successful!"}, sink.successes)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	f := &fakeSession{}
	a, sink, _ := newTestApp(f, &fakeTopics{})

	require.NoError(t, a.Logout(context.Background()))
	require.True(t, f.logoutCalled)
	require.Equal(t, []string{"Logged out successfully"}, sink.successes)
}

func TestUpdateProfile(t *testing.T) {
	f := &fakeSession{}
	a, _, _ := newTestApp(f, &fakeTopics{})

	restore := stubInputs(t, []string{"Alice", "", "intermediate"}, nil)
	defer restore()

	require.NoError(t, a.UpdateProfile(context.Background()))
	require.Equal(t, api.ProfilePatch{FirstName: "Alice", StudyLevel: "intermediate"}, f.patch)
}

func TestChangePassword(t *testing.T) {
	f := &fakeSession{}
	a, sink, _ := newTestApp(f, &fakeTopics{})

	restore := stubInputs(t, nil, []byte("hunter2"))
	defer restore()

	require.NoError(t, a.ChangePassword(context.Background()))
	require.Equal(t, "hunter2", f.oldPass)
	require.Equal(t, "hunter2", f.newPass)
	require.Equal(t, []string{"Password changed successfully!"}, sink.successes)
}

// ------------ notes view ------------

func sampleNotes() []models.Note {
	return []models.Note{
		{
			ID: "n1", TopicID: "t1", TopicTitle: "Photosynthesis",
			Summary: "How plants turn light into sugar.", WordCount: 450,
			ReadingTime: 3 * time.Minute, TopicStatus: models.TopicStatusReady,
		},
		{
			ID: "n2", TopicID: "t2", TopicTitle: "Krebs Cycle",
			WordCount: 300, ReadingTime: 2 * time.Minute,
			TopicStatus: models.TopicStatusCompleted,
		},
	}
}

func TestShowNotes_RendersAndArms(t *testing.T) {
	tg := &fakeTopics{notes: sampleNotes()}
	a, _, out := newTestApp(&fakeSession{}, tg)
	defer a.sched.DisarmAll()

	require.NoError(t, a.ShowNotes(context.Background()))
	require.Contains(t, out.String(), "Photosynthesis")
	require.Contains(t, out.String(), "[completed]")
	// Only the non-completed note gets a timer.
	require.Equal(t, 1, a.sched.ArmedCount())
}

func TestShowNotes_ListErrorNotified(t *testing.T) {
	tg := &fakeTopics{listErr: errors.New("boom")}
	a, sink, _ := newTestApp(&fakeSession{}, tg)

	require.Error(t, a.ShowNotes(context.Background()))
	require.Len(t, sink.errors, 1)
	require.Contains(t, sink.errors[0], "Failed to load notes")
}

func TestHandleCompletion_Success(t *testing.T) {
	tg := &fakeTopics{}
	a, sink, _ := newTestApp(&fakeSession{}, tg)
	a.notes = sampleNotes()

	a.handleCompletion(context.Background(), "n1", "t1")

	require.Equal(t, "t1", tg.completedID)
	require.Equal(t, models.TopicStatusCompleted, a.notes[0].TopicStatus)
	require.Equal(t, []string{`Marked "Photosynthesis" as completed!`}, sink.successes)
}

func TestHandleCompletion_GatewayErrorIsSilent(t *testing.T) {
	tg := &fakeTopics{markErr: errors.New("unavailable")}
	a, sink, _ := newTestApp(&fakeSession{}, tg)
	a.notes = sampleNotes()

	a.handleCompletion(context.Background(), "n1", "t1")

	// No user-facing noise, and the cached status stays untouched.
	require.Empty(t, sink.successes)
	require.Empty(t, sink.errors)
	require.Equal(t, models.TopicStatusReady, a.notes[0].TopicStatus)
}

func TestShowNote_ByIndex(t *testing.T) {
	a, _, out := newTestApp(&fakeSession{}, &fakeTopics{})
	a.notes = sampleNotes()

	restore := stubInputs(t, []string{"1"}, nil)
	defer restore()

	require.NoError(t, a.ShowNote(context.Background()))
	require.Contains(t, out.String(), "Photosynthesis")
	require.Contains(t, out.String(), "How plants turn light into sugar.")
}

func TestShowNote_OutOfRange(t *testing.T) {
	a, _, out := newTestApp(&fakeSession{}, &fakeTopics{})

	restore := stubInputs(t, []string{"7"}, nil)
	defer restore()

	require.NoError(t, a.ShowNote(context.Background()))
	require.Contains(t, out.String(), "No such note")
}

// ------------ REPL ------------

func TestRoot_HelpAndExit(t *testing.T) {
	a, _, out := newTestApp(&fakeSession{}, &fakeTopics{})
	a.reader = readerFromLines("help", "exit")

	a.Root(context.Background())

	require.Contains(t, out.String(), "register, login")
	require.Contains(t, out.String(), "Bye!")
}

func TestRoot_UnknownCommand(t *testing.T) {
	a, _, out := newTestApp(&fakeSession{}, &fakeTopics{})
	a.reader = readerFromLines("frobnicate", "exit")

	a.Root(context.Background())

	require.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestRoot_StatusShowsUser(t *testing.T) {
	f := &fakeSession{state: session.State{
		Phase: session.PhaseAuthenticated,
		User:  &models.UserProfile{Email: "alice@example.org"},
	}}
	a, _, out := newTestApp(f, &fakeTopics{})
	a.reader = readerFromLines("exit")

	a.Root(context.Background())

	require.Contains(t, out.String(), "(alice@example.org)")
}
