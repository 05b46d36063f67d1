package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/trezcool/obe/storage/importer"
)

func (cli *commandLine) printResult(res importer.Result) {
	color.New(color.FgGreen).Fprintf(cli.out, "created: %d, skipped: %d\n", res.Created, res.Skipped)
	if len(res.Errors) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	warn.Fprintf(cli.out, "%d rejected rows:\n", len(res.Errors))
	for _, e := range res.Errors {
		warn.Fprintf(cli.out, "  %s\n", e)
	}
}

func (cli *commandLine) seed(ctx context.Context) error {
	res, err := cli.importer.Seed(ctx)
	if err != nil {
		return errors.Wrap(err, "seeding")
	}
	cli.printResult(res)
	return nil
}

func (cli *commandLine) importCSV(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := cli.importer.ImportAssessmentsCSV(ctx, f)
	if err != nil {
		return errors.Wrapf(err, "importing %s", path)
	}
	cli.printResult(res)
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d rows could not be imported", len(res.Errors))
	}
	return nil
}
