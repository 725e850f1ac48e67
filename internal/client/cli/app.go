package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ktech-edu/ktechhub/internal/client/api"
	"github.com/ktech-edu/ktechhub/internal/client/auth"
	"github.com/ktech-edu/ktechhub/internal/client/biometric"
	"github.com/ktech-edu/ktechhub/internal/client/config"
	"github.com/ktech-edu/ktechhub/internal/client/kvstore"
	"github.com/ktech-edu/ktechhub/internal/client/services"
	"github.com/ktech-edu/ktechhub/internal/client/session"
	"github.com/ktech-edu/ktechhub/internal/filex"
	"github.com/ktech-edu/ktechhub/internal/logging"
)

const defaultLogFile = "ktechhub.log"

// sessionManager is the part of *auth.Manager the CLI drives directly.
type sessionManager interface {
	State() auth.State
	Subscribe() (<-chan auth.State, func())
	Resume(ctx context.Context) error
	ToggleBiometric(ctx context.Context, enable bool) (bool, error)
}

// recordReader exposes the stored record for display.
type recordReader interface {
	Load(ctx context.Context) (session.Record, error)
}

type passcodeEnroller interface {
	Enroll(ctx context.Context, passcode []byte) error
}

type App struct {
	config      *config.Config
	log         logging.Logger
	kv          *kvstore.Store
	manager     sessionManager
	records     recordReader
	authService services.AuthService
	passcode    passcodeEnroller
	reader      *bufio.Reader
	out         io.Writer
	closers     []io.Closer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}

	logOut := logging.NewFileWriter(filex.InDir(dir, c.LogFile, defaultLogFile))
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logging.ParseLevel(c.LogLevel),
	})))

	kind := kvstore.Kind(c.StoreBackend)
	dsn := c.StoreDSN
	if kind.FileBased() {
		dsn = filex.InDir(dir, dsn, kind.DefaultDSN())
	}

	backend, err := kvstore.Open(ctx, kind, dsn)
	if err != nil {
		log.Error(ctx, "error opening store", "backend", string(kind), "error", err)
		_ = logOut.Close()
		return nil, fmt.Errorf("open %s store: %w", kind, err)
	}
	kv := kvstore.New(backend, log)
	log.Info(ctx, "client started", "backend", string(kind), "data_dir", dir)

	platform := biometric.NewPasscodePlatform(kv, int(os.Stdin.Fd()), os.Stdout, c.ChallengeAttempts)
	gate := biometric.NewGate(platform, log)
	store := session.NewStore(kv, log)
	manager := auth.NewManager(store, gate, log)

	apiClient := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	device := func(ctx context.Context) api.Device { return api.ResolveDevice(ctx, kv, log) }
	as := services.NewAuthService(apiClient, manager, device)

	return &App{
		config:      c,
		log:         log,
		kv:          kv,
		manager:     manager,
		records:     store,
		authService: as,
		passcode:    platform,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		closers:     []io.Closer{kv, logOut},
	}, nil
}

// Run restores the session and serves commands until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.Root(ctx)
	return nil
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.manager.State().IsAuthenticated
}

// StartStateWatcher logs every published session state until ctx is done.
func (a *App) StartStateWatcher(ctx context.Context) {
	ch, cancel := a.manager.Subscribe()
	defer cancel()

	for {
		select {
		case s, ok := <-ch:
			if !ok {
				return
			}
			a.log.Info(ctx, "session state",
				"phase", s.Phase().String(),
				"biometric_available", s.IsBiometricAvailable,
				"biometric_enabled", s.IsBiometricEnabled,
			)

		case <-ctx.Done():
			return
		}
	}
}
