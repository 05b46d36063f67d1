// Package importer loads programme data into the outcome store: the embedded sample programme
// (or any YAML document of the same shape) and assessment records from CSV files.
package importer

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/outcome"
)

//go:embed seed.yaml
var seedYAML []byte

type (
	// RowError reports an input row that was rejected; Row is 1-based within its section (CSV: file line).
	RowError struct {
		Section string
		Row     int
		Err     string
	}

	Result struct {
		Created int
		Skipped int // duplicates
		Errors  []RowError
	}

	Importer struct {
		svc        outcome.ServiceInterface
		validate   *validator.Validate
		translator ut.Translator
	}
)

func (e RowError) String() string {
	return fmt.Sprintf("%s row %d: %s", e.Section, e.Row, e.Err)
}

func New(svc outcome.ServiceInterface, validate *validator.Validate, translator ut.Translator) *Importer {
	return &Importer{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}
}

func (res *Result) merge(other Result) {
	res.Created += other.Created
	res.Skipped += other.Skipped
	res.Errors = append(res.Errors, other.Errors...)
}

// describe renders a rejected row's error; ok is false for errors that must abort the import.
func (imp *Importer) describe(err error) (string, bool) {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		fldErrs := core.TranslateValidationErrors(origErr, imp.translator)
		msgs := make([]string, 0, len(fldErrs))
		for fld, msg := range fldErrs {
			msgs = append(msgs, fld+": "+msg)
		}
		sort.Strings(msgs)
		return strings.Join(msgs, "; "), true
	case *core.ValidationError:
		return origErr.Error(), true
	}
	if errors.Cause(err) == outcome.ErrUnknownReference {
		return err.Error(), true
	}
	return "", false
}

// record accounts for one create attempt.
func (imp *Importer) record(res *Result, section string, row int, ok bool, err error) error {
	if err != nil {
		msg, rejected := imp.describe(err)
		if !rejected {
			return errors.Wrapf(err, "importing %s row %d", section, row)
		}
		res.Errors = append(res.Errors, RowError{Section: section, Row: row, Err: msg})
		return nil
	}
	if ok {
		res.Created++
	} else {
		res.Skipped++
	}
	return nil
}

type validatable interface {
	Validate(*validator.Validate) error
}

// create validates v and hands it to fn when valid.
func create[T validatable](
	ctx context.Context,
	imp *Importer,
	res *Result,
	section string,
	items []T,
	fn func(context.Context, T) (bool, error),
) error {
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		var ok bool
		err := item.Validate(imp.validate)
		if err == nil {
			ok, err = fn(ctx, item)
		}
		if err := imp.record(res, section, i+1, ok, err); err != nil {
			return err
		}
	}
	return nil
}
