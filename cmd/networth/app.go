package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"networth/internal/backend"
	"networth/internal/config"
	"networth/internal/core"
	"networth/internal/log"
)

// app carries what every command needs: configuration, the logger and the I/O streams.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	uid    *int64
	out    io.Writer
	in     io.Reader
	now    func() time.Time
}

func (a *app) open(ctx context.Context) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(a.logger).CreateBackend(ctx, bcfg)
}

// run opens the backend, hands it to fn and releases it afterwards.
func (a *app) run(ctx context.Context, op string, fn func(b *backend.BackendResult) error) subcommands.ExitStatus {
	b, err := a.open(ctx)
	if err != nil {
		return a.fail(ctx, op, err)
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			a.logger.WarnContext(ctx, "Cleanup failed", log.FieldError, err)
		}
	}()

	if err := fn(b); err != nil {
		return a.fail(ctx, op, err)
	}
	return subcommands.ExitSuccess
}

func (a *app) fail(ctx context.Context, op string, err error) subcommands.ExitStatus {
	fields := log.NewFields().WithOperation(op).WithError(err)
	if kind := core.KindOf(err); kind != "" {
		fields["kind"] = string(kind)
	}
	if ids := core.IDsOf(err); len(ids) > 0 {
		fields["ids"] = ids
	}
	a.logger.ErrorContext(ctx, "Command failed", fields.ToSlice()...)
	fmt.Fprintln(os.Stderr, err)

	if errors.Is(err, core.ErrBadRequest) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func (a *app) today() core.Date {
	if a.now != nil {
		return core.DateOf(a.now())
	}
	return core.DateOf(time.Now())
}

// readEntryInput decodes an entry from path, or from the input stream when path is "" or "-".
func (a *app) readEntryInput(path string) (core.EntryInput, error) {
	var r io.Reader = a.in
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return core.EntryInput{}, err
		}
		defer f.Close()
		r = f
	}

	var in core.EntryInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return core.EntryInput{}, core.BadRequest(fmt.Sprintf("decode entry: %v", err))
	}
	return in, nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) renderer() renderer {
	return renderer{currency: a.cfg.ReportingCurrency}
}

// parseDateFlag parses a YYYY-MM-DD flag value, falling back to def when empty.
func parseDateFlag(name, value string, def core.Date) (core.Date, error) {
	if value == "" {
		return def, nil
	}
	d, err := core.ParseDate(value)
	if err != nil {
		return core.Date{}, core.BadRequest(fmt.Sprintf("invalid -%s: %v", name, err))
	}
	return d, nil
}
