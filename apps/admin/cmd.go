package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/analytics"
	"github.com/trezcool/obe/core/report"
	"github.com/trezcool/obe/storage/importer"
)

var (
	errHelp = errors.New("help provided")
	errNoDB = errors.New("migrations need a postgres database (database.inMemory is set)")
)

type commandLine struct {
	db           *sql.DB // nil with the in-memory store
	analyticsSvc *analytics.Service
	reports      *report.Generator
	importer     *importer.Importer
	mailSvc      core.EmailService
	conf         *core.Config
	out          io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]               - run goose migrations (up, down, status, version, redo, reset...)")
	fmt.Fprintln(cli.out, "  seed                                 - load the sample programme")
	fmt.Fprintln(cli.out, "  import -file FILE                    - import assessment records from a CSV file")
	fmt.Fprintln(cli.out, "  risk                                 - print the outcome risk assessment")
	fmt.Fprintln(cli.out, "  trend [-outcome CODE] [-horizon N]   - forecast one or every outcome")
	fmt.Fprintln(cli.out, "  clusters                             - print course performance clusters")
	fmt.Fprintln(cli.out, "  report -format xlsx|pdf -out FILE    - write the accreditation report")
	fmt.Fprintln(cli.out, "  sendreport -format xlsx|pdf -to EMAILS - email the report (comma separated recipients)")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	importCmd := cli.newFlagSet("import")
	importFile := importCmd.String("file", "", "CSV file with a header row: "+fmt.Sprint(importer.AssessmentColumns))

	trendCmd := cli.newFlagSet("trend")
	trendOutcome := trendCmd.String("outcome", "", "The program outcome code. Every outcome when empty.")
	trendHorizon := trendCmd.Int("horizon", cli.conf.Analytics.DefaultHorizon, "The number of half-terms to forecast.")

	reportCmd := cli.newFlagSet("report")
	reportFormat := reportCmd.String("format", report.FormatExcel, "xlsx or pdf")
	reportOut := reportCmd.String("out", "", "The output file. Defaults to a timestamped name in the working directory.")

	sendCmd := cli.newFlagSet("sendreport")
	sendFormat := sendCmd.String("format", report.FormatPDF, "xlsx or pdf")
	sendTo := sendCmd.String("to", "", "Comma separated recipients, eg. \"Dean <dean@uni.edu>, qa@uni.edu\".")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed(ctx)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importCSV(ctx, *importFile)
	case "risk":
		return cli.risk(ctx)
	case "trend":
		if err := trendCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.trend(ctx, *trendOutcome, *trendHorizon)
	case "clusters":
		return cli.clusters(ctx)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.writeReport(ctx, *reportFormat, *reportOut)
	case "sendreport":
		if err := sendCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *sendTo == "" {
			sendCmd.Usage()
			return errHelp
		}
		return cli.sendReport(ctx, *sendFormat, *sendTo)
	default:
		cli.printUsage()
		return errHelp
	}
}
