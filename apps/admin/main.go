package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/analytics"
	"github.com/trezcool/obe/core/outcome"
	"github.com/trezcool/obe/core/report"
	"github.com/trezcool/obe/services/email"
	"github.com/trezcool/obe/services/logger"
	"github.com/trezcool/obe/storage/database"
	"github.com/trezcool/obe/storage/database/inmem"
	"github.com/trezcool/obe/storage/database/sqlx"
	"github.com/trezcool/obe/storage/importer"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	validate, translator := core.NewValidator()

	// set up store
	var (
		db   *sql.DB
		repo outcome.Repository
	)
	if conf.Database.InMemory {
		repo = inmemdb.NewOutcomeRepository(inmemdb.Open())
	} else {
		sqlxDB, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		db = sqlxDB.DB
		repo = sqlxrepos.NewOutcomeRepository(sqlxDB)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, os.Stdout, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	outcomeSvc := outcome.NewService(repo)
	analyticsSvc := analytics.NewService(repo, conf.Analytics)

	// start CLI
	cli := commandLine{
		db:           db,
		analyticsSvc: analyticsSvc,
		reports:      report.NewGenerator(repo, analyticsSvc, conf.Report),
		importer:     importer.New(outcomeSvc, validate, translator),
		mailSvc:      mailSvc,
		conf:         conf,
		out:          os.Stdout,
	}
	err := cli.run(os.Args)

	if w, ok := mailSvc.(interface{ Wait() }); ok {
		w.Wait()
	}
	if db != nil {
		_ = db.Close()
	}
	logger.Close()

	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
