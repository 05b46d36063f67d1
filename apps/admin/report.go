package main

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/trezcool/obe/core/report"
)

func (cli *commandLine) writeReport(ctx context.Context, format, path string) error {
	if _, err := report.ContentType(format); err != nil {
		return err
	}
	if path == "" {
		path = report.Filename(format, cli.reports.Now())
	}

	// render fully before touching the file
	var buf bytes.Buffer
	if err := cli.reports.Write(ctx, format, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	color.New(color.FgGreen).Fprintf(cli.out, "report written to %s\n", path)
	return nil
}

func (cli *commandLine) sendReport(ctx context.Context, format, to string) error {
	recipients, err := mail.ParseAddressList(to)
	if err != nil {
		return errors.Wrap(err, "parsing recipients")
	}
	addrs := make([]mail.Address, len(recipients))
	for i, addr := range recipients {
		addrs[i] = *addr
	}

	msg, err := cli.reports.EmailMessage(ctx, format, addrs)
	if err != nil {
		return err
	}
	msg.SetAppName(cli.conf.AppName)
	cli.mailSvc.SendMessages(msg)
	fmt.Fprintf(cli.out, "report sent to %d recipient(s)\n", len(addrs))
	return nil
}
