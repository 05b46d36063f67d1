package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/trezcool/obe/apps/api/echo"
	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/analytics"
	"github.com/trezcool/obe/core/outcome"
	"github.com/trezcool/obe/core/report"
	"github.com/trezcool/obe/services/logger"
	"github.com/trezcool/obe/storage/database"
	"github.com/trezcool/obe/storage/database/inmem"
	"github.com/trezcool/obe/storage/database/sqlx"
	"github.com/trezcool/obe/storage/importer"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	validate, translator := core.NewValidator()

	// set up store
	repo, closeDB, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up store: %v", err), err)
	}
	defer func() {
		if err := closeDB.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}()

	// set up services
	outcomeSvc := outcome.NewService(repo)
	analyticsSvc := analytics.NewService(repo, conf.Analytics)
	reports := report.NewGenerator(repo, analyticsSvc, conf.Report)

	if conf.Database.InMemory {
		res, err := importer.New(outcomeSvc, validate, translator).Seed(context.Background())
		if err != nil {
			logger.Fatal(fmt.Sprintf("seeding in-memory store: %v", err), err)
		}
		logger.Info(fmt.Sprintf("in-memory store seeded: %d rows", res.Created))
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:       conf.Server.Address,
		Debug:         conf.Debug,
		TestMode:      conf.TestMode,
		ServerConf:    conf.Server,
		AnalyticsConf: conf.Analytics,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		SignalShutdown: func() {
			shutdown <- syscall.SIGTERM
		},
		OutcomeSvc:   outcomeSvc,
		AnalyticsSvc: analyticsSvc,
		Reports:      reports,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error(fmt.Sprintf("server error: %v", err), err)
		}

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// setUpStore returns the Postgres store (created & migrated when needed) or the in-memory one.
func setUpStore(conf *core.Config) (outcome.Repository, io.Closer, error) {
	if conf.Database.InMemory {
		return inmemdb.NewOutcomeRepository(inmemdb.Open()), nopCloser{}, nil
	}

	if conf.Database.AdminUser != "" {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, nil, err
		}
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, nil, err
	}
	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return sqlxrepos.NewOutcomeRepository(db), db, nil
}
