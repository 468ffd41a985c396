package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/studynotes/internal/client/api"
	"github.com/dmitrijs2005/studynotes/internal/client/config"
	"github.com/dmitrijs2005/studynotes/internal/client/credentials"
	"github.com/dmitrijs2005/studynotes/internal/client/models"
	"github.com/dmitrijs2005/studynotes/internal/client/notify"
	"github.com/dmitrijs2005/studynotes/internal/client/scheduler"
	"github.com/dmitrijs2005/studynotes/internal/client/session"
	"github.com/dmitrijs2005/studynotes/internal/logging"
)

// sessionAPI is the slice of the session manager the CLI needs. The real
// *session.Manager satisfies it; tests can provide a stub.
type sessionAPI interface {
	Initialize(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, input api.RegisterInput) error
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, patch api.ProfilePatch) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	Subscribe(fn func(session.State)) func()
	CurrentState() session.State
}

// App wires the session manager, the topic gateway, and the completion
// scheduler behind an interactive REPL.
type App struct {
	config  *config.Config
	session sessionAPI
	topics  api.TopicGateway
	sched   *scheduler.Scheduler
	sink    notify.Sink
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	notesMu sync.Mutex
	notes   []models.Note
}

// NewApp builds the full client: local database, credential store, API
// client, session manager, scheduler. The global auth-failure policy is
// wired here: any 401 from any call invalidates the session and tells the
// user to log in again.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := credentials.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := credentials.NewSQLiteStore(db)
	apiClient := api.NewClient(cfg.ServerBaseURL, cfg.RequestTimeout, credentials.NewTokenProvider(store), log)

	manager := session.NewManager(store, apiClient, log, session.Options{
		ValidationDeadline: cfg.ValidationDeadline,
	})

	sink := notify.NewWriterSink(os.Stdout)

	apiClient.SetAuthFailureHandler(func(ctx context.Context) {
		manager.Invalidate(ctx)
		sink.Error("Session expired, please log in again.")
	})

	app := &App{
		config:  cfg,
		session: manager,
		topics:  apiClient,
		sched:   scheduler.New(log),
		sink:    sink,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	// Timers only make sense while a session exists.
	manager.Subscribe(func(st session.State) {
		if st.Phase != session.PhaseAuthenticated {
			app.sched.DisarmAll()
		}
	})

	return app, nil
}

// Run resolves the persisted session and enters the REPL. It returns when
// the user exits or input reaches EOF.
func (a *App) Run(ctx context.Context) {
	defer a.sched.DisarmAll()

	if err := a.session.Initialize(ctx); err != nil {
		a.log.Error(ctx, "session initialization failed", "error", err)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.CurrentState().Phase == session.PhaseAuthenticated
}
