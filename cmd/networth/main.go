package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"networth/internal/cli"
	"networth/internal/log"
)

var uidFlag = flag.Int64("uid", 1, "ID of the user whose entries are read and written")

func main() {
	cfg, logger := cli.MustSetup(log.ComponentCLI)

	a := &app{cfg: cfg, logger: logger, uid: uidFlag, out: os.Stdout, in: os.Stdin}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander, a)

	flag.Parse()
	ctx, stop := cli.SignalContext(context.Background(), logger)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

// register adds every networth command to c.
func register(c *subcommands.Commander, a *app) {
	c.Register(&migrateCmd{app: a}, "admin")

	c.Register(&createCmd{app: a}, "entries")
	c.Register(&updateCmd{app: a}, "entries")
	c.Register(&showCmd{app: a}, "entries")
	c.Register(&listCmd{app: a}, "entries")
	c.Register(&deleteCmd{app: a}, "entries")

	c.Register(&aggregatesCmd{app: a}, "reports")
	c.Register(&cashCmd{app: a}, "reports")
	c.Register(&summaryCmd{app: a}, "reports")
	c.Register(&loansCmd{app: a}, "reports")

	c.Register(&categoryCmd{app: a}, "taxonomy")
	c.Register(&subcategoryCmd{app: a}, "taxonomy")
}
