package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/vkozyrev/sharebox/internal/client/config"
	"github.com/vkozyrev/sharebox/internal/client/kvstore"
	"github.com/vkozyrev/sharebox/internal/client/picker"
	"github.com/vkozyrev/sharebox/internal/client/services"
	"github.com/vkozyrev/sharebox/internal/client/session"
	"github.com/vkozyrev/sharebox/internal/client/transport"
	"github.com/vkozyrev/sharebox/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	db          *sql.DB
	client      transport.Client
	sessions    *session.Store
	authService services.AuthService
	fileService services.FileService
	picker      *picker.FS
	log         logging.Logger
	Mode        Mode
	reader      *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := kvstore.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	sessions := session.NewStore(kvstore.NewSQLiteRepository(db))

	app := &App{
		config:   c,
		db:       db,
		sessions: sessions,
		picker:   picker.NewFS(),
		log:      logger,
		reader:   bufio.NewReader(os.Stdin),
	}

	apiClient := transport.NewHTTPClient(c.ServerBaseURL,
		transport.WithTimeout(c.RequestTimeout),
		transport.WithUploadTimeout(c.UploadTimeout),
		transport.WithTokenSource(sessions),
		transport.WithAuthFailureHook(func(ctx context.Context) {
			app.authService.HandleTokenExpired(ctx)
		}),
	)
	app.client = apiClient

	app.authService = services.NewAuthService(apiClient, sessions, logger)
	app.fileService = services.NewFileService(apiClient, app.picker, logger)

	return app, nil
}

func (app *App) setMode(mode Mode) {
	if app.Mode != mode {
		app.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	_ = a.client.Close()
	_ = a.db.Close()
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.authService.IsLoggedIn(ctx)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.client.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
