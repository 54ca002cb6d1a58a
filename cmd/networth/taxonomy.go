package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/google/subcommands"

	"networth/internal/backend"
	"networth/internal/core"
	"networth/internal/log"
)

// optionalBool is a flag that stays nil unless set.
type optionalBool struct{ v *bool }

func (o *optionalBool) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return strconv.FormatBool(*o.v)
}

func (o *optionalBool) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	o.v = &b
	return nil
}

func (o *optionalBool) IsBoolFlag() bool { return true }

// optionalFloat is a flag that stays nil unless set.
type optionalFloat struct{ v *float64 }

func (o *optionalFloat) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return strconv.FormatFloat(*o.v, 'f', -1, 64)
}

func (o *optionalFloat) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	o.v = &f
	return nil
}

// actionFlags parses the arguments following an action word such as "add".
func actionFlags(name string, args []string, define func(f *flag.FlagSet)) error {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	define(f)
	return f.Parse(args)
}

type categoryCmd struct {
	app *app
}

func (*categoryCmd) Name() string     { return "category" }
func (*categoryCmd) Synopsis() string { return "list, add, update or delete categories" }
func (*categoryCmd) Usage() string {
	return `networth category list
networth category add -type <asset|liability> -name <name> [-color <color>] [-option]
networth category update -id <id> -type <asset|liability> -name <name> [-color <color>] [-option]
networth category delete -id <id>

  Deleting a category removes its sub-categories and every value recorded
  against them.
`
}

func (*categoryCmd) SetFlags(*flag.FlagSet) {}

func (c *categoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(f.Output(), c.Usage())
		return subcommands.ExitUsageError
	}
	action, args := f.Arg(0), f.Args()[1:]

	var category core.Category
	var typ string
	define := func(withID bool) func(fs *flag.FlagSet) {
		return func(fs *flag.FlagSet) {
			if withID {
				fs.Int64Var(&category.ID, "id", 0, "category ID")
			}
			fs.StringVar(&typ, "type", string(core.Asset), "asset or liability")
			fs.StringVar(&category.Category, "name", "", "category name")
			fs.StringVar(&category.Color, "color", "", "display color")
			fs.BoolVar(&category.IsOption, "option", false, "sub-categories hold stock options")
		}
	}

	switch action {
	case "list":
		return c.app.run(ctx, log.OpList, func(b *backend.BackendResult) error {
			categories, err := b.Categories.ListCategories(ctx)
			if err != nil {
				return err
			}
			return writeCategories(c.app.out, categories)
		})
	case "add", "update":
		if err := actionFlags("category "+action, args, define(action == "update")); err != nil {
			return subcommands.ExitUsageError
		}
		category.Type = core.CategoryType(typ)
		op := log.OpCreate
		if action == "update" {
			op = log.OpUpdate
		}
		return c.app.run(ctx, op, func(b *backend.BackendResult) error {
			var saved core.Category
			var err error
			if action == "add" {
				saved, err = b.Categories.CreateCategory(ctx, category)
			} else {
				saved, err = b.Categories.UpdateCategory(ctx, category)
			}
			if err != nil {
				return err
			}
			return c.app.writeJSON(saved)
		})
	case "delete":
		var id int64
		if err := actionFlags("category delete", args, func(fs *flag.FlagSet) {
			fs.Int64Var(&id, "id", 0, "category ID")
		}); err != nil {
			return subcommands.ExitUsageError
		}
		return c.app.run(ctx, log.OpDelete, func(b *backend.BackendResult) error {
			if err := b.Categories.DeleteCategory(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "deleted category %d\n", id)
			return nil
		})
	default:
		fmt.Fprintf(f.Output(), "unknown action %q\n", action)
		return subcommands.ExitUsageError
	}
}

type subcategoryCmd struct {
	app *app
}

func (*subcategoryCmd) Name() string     { return "subcategory" }
func (*subcategoryCmd) Synopsis() string { return "list, add, update or delete sub-categories" }
func (*subcategoryCmd) Usage() string {
	return `networth subcategory list [-category <id>]
networth subcategory add -category <id> -name <name> [-credit-limit] [-saye] [-opacity <0..1>] [-appreciation <rate>]
networth subcategory update -id <id> -category <id> -name <name> [...]
networth subcategory delete -id <id>

  -saye must be given, true or false, exactly when the parent category holds
  options.
`
}

func (*subcategoryCmd) SetFlags(*flag.FlagSet) {}

func (c *subcategoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(f.Output(), c.Usage())
		return subcommands.ExitUsageError
	}
	action, args := f.Arg(0), f.Args()[1:]

	var sub core.Subcategory
	var creditLimit, saye optionalBool
	var appreciation optionalFloat
	define := func(withID bool) func(fs *flag.FlagSet) {
		return func(fs *flag.FlagSet) {
			if withID {
				fs.Int64Var(&sub.ID, "id", 0, "sub-category ID")
			}
			fs.Int64Var(&sub.CategoryID, "category", 0, "parent category ID")
			fs.StringVar(&sub.Subcategory, "name", "", "sub-category name")
			fs.Var(&creditLimit, "credit-limit", "the sub-category carries a credit limit")
			fs.Var(&saye, "saye", "options are valued at strike price (option categories only)")
			fs.Float64Var(&sub.Opacity, "opacity", 1, "display opacity")
			fs.Var(&appreciation, "appreciation", "yearly appreciation rate of an illiquid asset")
		}
	}

	switch action {
	case "list":
		var categoryID int64
		if err := actionFlags("subcategory list", args, func(fs *flag.FlagSet) {
			fs.Int64Var(&categoryID, "category", 0, "only sub-categories of this category")
		}); err != nil {
			return subcommands.ExitUsageError
		}
		return c.app.run(ctx, log.OpList, func(b *backend.BackendResult) error {
			subs, err := b.Categories.ListSubcategories(ctx, categoryID)
			if err != nil {
				return err
			}
			return writeSubcategories(c.app.out, subs)
		})
	case "add", "update":
		if err := actionFlags("subcategory "+action, args, define(action == "update")); err != nil {
			return subcommands.ExitUsageError
		}
		sub.HasCreditLimit, sub.IsSAYE, sub.AppreciationRate = creditLimit.v, saye.v, appreciation.v
		op := log.OpCreate
		if action == "update" {
			op = log.OpUpdate
		}
		return c.app.run(ctx, op, func(b *backend.BackendResult) error {
			var saved core.Subcategory
			var err error
			if action == "add" {
				saved, err = b.Categories.CreateSubcategory(ctx, sub)
			} else {
				saved, err = b.Categories.UpdateSubcategory(ctx, sub)
			}
			if err != nil {
				return err
			}
			return c.app.writeJSON(saved)
		})
	case "delete":
		var id int64
		if err := actionFlags("subcategory delete", args, func(fs *flag.FlagSet) {
			fs.Int64Var(&id, "id", 0, "sub-category ID")
		}); err != nil {
			return subcommands.ExitUsageError
		}
		return c.app.run(ctx, log.OpDelete, func(b *backend.BackendResult) error {
			if err := b.Categories.DeleteSubcategory(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.app.out, "deleted sub-category %d\n", id)
			return nil
		})
	default:
		fmt.Fprintf(f.Output(), "unknown action %q\n", action)
		return subcommands.ExitUsageError
	}
}

func writeCategories(w io.Writer, categories []core.Category) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tCATEGORY\tOPTION\tCOLOR")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", c.ID, c.Type, c.Category, c.IsOption, c.Color)
	}
	return tw.Flush()
}

func writeSubcategories(w io.Writer, subs []core.Subcategory) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tSUBCATEGORY\tCREDIT LIMIT\tSAYE\tAPPRECIATION")
	for _, s := range subs {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", s.ID, s.CategoryID, s.Subcategory,
			(&optionalBool{s.HasCreditLimit}).String(), (&optionalBool{s.IsSAYE}).String(),
			(&optionalFloat{s.AppreciationRate}).String())
	}
	return tw.Flush()
}
