package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"networth/internal/log"
	"networth/internal/storage"
)

type migrateCmd struct {
	app    *app
	status bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending schema migrations to the database" }
func (*migrateCmd) Usage() string {
	return `networth migrate [-status]

  Applies the embedded migrations to SQLITE_DB_PATH. With -status, only prints
  the applied schema version.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.status, "status", false, "print the schema version without migrating")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := c.app.cfg.SQLiteDBPath
	if !c.status {
		if err := storage.RunMigrations(path); err != nil {
			return c.app.fail(ctx, log.OpMigrate, err)
		}
		c.app.logger.InfoContext(ctx, "Migrations applied", log.FieldDBPath, path)
	}

	version, dirty, err := storage.MigrationVersion(path)
	if err != nil {
		return c.app.fail(ctx, log.OpMigrate, err)
	}
	fmt.Fprintf(c.app.out, "schema version %d (dirty: %t)\n", version, dirty)
	return subcommands.ExitSuccess
}
