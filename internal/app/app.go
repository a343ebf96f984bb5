// Package app wires configuration, storage, collaborators and the terminal
// front-end into one onboarding run.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/onboard/internal/auth"
	"github.com/dmitrijs2005/onboard/internal/cli"
	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/config"
	"github.com/dmitrijs2005/onboard/internal/events"
	"github.com/dmitrijs2005/onboard/internal/geo"
	"github.com/dmitrijs2005/onboard/internal/logging"
	"github.com/dmitrijs2005/onboard/internal/photos"
	"github.com/dmitrijs2005/onboard/internal/reference"
	"github.com/dmitrijs2005/onboard/internal/repositories/repomanager"
	"github.com/dmitrijs2005/onboard/internal/services"
	"github.com/dmitrijs2005/onboard/internal/wizard"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

// openDB is a test seam for sql.Open.
var openDB = sql.Open

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	closers     []io.Closer

	stdin  io.Reader
	stdout io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	db, err := openDB("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repomanager: repomanager.NewPostgresRepositoryManager(),
		closers:     []io.Closer{db},
		stdin:       os.Stdin,
		stdout:      os.Stdout,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run performs one wizard session and reports how it ended.
func (app *App) Run(ctx context.Context) (wizard.Outcome, error) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close(ctx)

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return wizard.Exited, fmt.Errorf("migrations: %w", err)
	}

	uploader, err := photos.NewS3Uploader(ctx, app.config)
	if err != nil {
		return wizard.Exited, err
	}

	publisher := app.newPublisher()
	app.closers = append(app.closers, publisher)

	locator, err := app.newLocator()
	if err != nil {
		return wizard.Exited, err
	}

	token, err := app.accessToken()
	if err != nil {
		return wizard.Exited, err
	}

	committer := services.NewCommitter(app.db, app.repomanager,
		photos.NewResizingUploader(uploader, app.config.MaxPhotoDimension),
		publisher, app.config, app.logger)

	session := wizard.NewSession(ctx, app.newLoader(), locator, committer,
		auth.NewTokenSession(token, []byte(app.config.SecretKey), app.logger), app.logger)

	app.logger.Info(ctx, "onboarding session started")
	outcome := cli.NewRunner(session, app.stdin, app.stdout).Run(ctx)
	app.logger.Info(ctx, "onboarding session ended", "outcome", outcome.String())

	return outcome, nil
}

func (app *App) newPublisher() events.Publisher {
	if len(app.config.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(app.config.KafkaBrokers, app.config.KafkaTopic, app.logger)
}

func (app *App) newLoader() reference.Loader {
	var loader reference.Loader = reference.NewStoreLoader(app.db, app.repomanager)
	if app.config.RedisAddr == "" {
		return loader
	}

	client := redis.NewClient(&redis.Options{
		Addr:     app.config.RedisAddr,
		Password: app.config.RedisPassword,
	})
	app.closers = append(app.closers, client)
	return reference.NewCachedLoader(loader, reference.NewRedisCache(client), app.config.ReferenceCacheTTL, app.logger)
}

// newLocator prefers a configured position, then GeoIP. With neither the
// locator reports common.ErrLocationUnsupported and the user picks manually.
func (app *App) newLocator() (geo.Locator, error) {
	var chain geo.ChainLocator

	if app.config.Position != "" {
		fixed, err := geo.NewFixedLocator(app.config.Position)
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		chain = append(chain, fixed)
	}

	if app.config.GeoIPDatabase != "" {
		ip, err := geo.NewGeoIPLocator(app.config.GeoIPDatabase, app.config.GeoIPAddress)
		if err != nil {
			app.logger.Warn(context.Background(), "geoip disabled", logging.Err(err))
		} else {
			app.closers = append(app.closers, ip)
			chain = append(chain, ip)
		}
	}

	return chain, nil
}

func (app *App) accessToken() (string, error) {
	if app.config.AccessToken != "" {
		return app.config.AccessToken, nil
	}
	b, err := cli.GetSecret("Access token: ", app.stdout)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrNotAuthenticated, err)
	}
	defer common.WipeByteArray(b)
	return string(b), nil
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(ctx, "close failed", logging.Err(err))
		}
	}
	app.closers = nil
}
