package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"networth/internal/backend"
	"networth/internal/core"
	"networth/internal/log"
)

type createCmd struct {
	app  *app
	file string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "record a new net worth entry from JSON" }
func (*createCmd) Usage() string {
	return `networth [-uid <uid>] create [-f <file>]

  Reads an entry as JSON (date, values, creditLimit, currencies) from the file
  or from stdin, validates it and stores it. The stored entry is printed back.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "-", "JSON file holding the entry, - for stdin")
}

func (c *createCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := c.app.readEntryInput(c.file)
	if err != nil {
		return c.app.fail(ctx, log.OpCreate, err)
	}
	return c.app.run(ctx, log.OpCreate, func(b *backend.BackendResult) error {
		entry, err := b.Entries.Create(ctx, *c.app.uid, in)
		if err != nil {
			return err
		}
		return c.app.writeJSON(entry)
	})
}

type updateCmd struct {
	app  *app
	id   int64
	file string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "replace the content of an entry" }
func (*updateCmd) Usage() string {
	return `networth [-uid <uid>] update -id <entry> [-f <file>]

  Replaces the date, values, credit limits and currencies of an entry with the
  JSON document read from the file or stdin. Unchanged values keep their IDs.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "ID of the entry to update")
	f.StringVar(&c.file, "f", "-", "JSON file holding the entry, - for stdin")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		fmt.Fprintln(f.Output(), "update: -id is required")
		return subcommands.ExitUsageError
	}
	in, err := c.app.readEntryInput(c.file)
	if err != nil {
		return c.app.fail(ctx, log.OpUpdate, err)
	}
	return c.app.run(ctx, log.OpUpdate, func(b *backend.BackendResult) error {
		entry, err := b.Entries.Update(ctx, *c.app.uid, c.id, in)
		if err != nil {
			return err
		}
		return c.app.writeJSON(entry)
	})
}

type showCmd struct {
	app *app
	id  int64
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print one entry as JSON" }
func (*showCmd) Usage() string {
	return `networth [-uid <uid>] show -id <entry>
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "ID of the entry")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		fmt.Fprintln(f.Output(), "show: -id is required")
		return subcommands.ExitUsageError
	}
	return c.app.run(ctx, log.OpRead, func(b *backend.BackendResult) error {
		entry, err := b.Entries.Read(ctx, *c.app.uid, c.id)
		if err != nil {
			return err
		}
		return c.app.writeJSON(entry)
	})
}

type listCmd struct {
	app   *app
	since string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "print every entry on or after a date, newest first" }
func (*listCmd) Usage() string {
	return `networth [-uid <uid>] list [-since <YYYY-MM-DD>]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.since, "since", "", "only entries dated on or after this day (default: all)")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	since, err := parseDateFlag("since", c.since, core.NewDate(1, 1, 1))
	if err != nil {
		return c.app.fail(ctx, log.OpList, err)
	}
	return c.app.run(ctx, log.OpList, func(b *backend.BackendResult) error {
		entries, err := b.Entries.ReadAll(ctx, *c.app.uid, since)
		if err != nil {
			return err
		}
		return c.app.writeJSON(entries)
	})
}

type deleteCmd struct {
	app *app
	id  int64
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove an entry and everything recorded under it" }
func (*deleteCmd) Usage() string {
	return `networth [-uid <uid>] delete -id <entry>
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "ID of the entry to delete")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		fmt.Fprintln(f.Output(), "delete: -id is required")
		return subcommands.ExitUsageError
	}
	return c.app.run(ctx, log.OpDelete, func(b *backend.BackendResult) error {
		if err := b.Entries.Delete(ctx, *c.app.uid, c.id); err != nil {
			return err
		}
		fmt.Fprintf(c.app.out, "deleted entry %d\n", c.id)
		return nil
	})
}
