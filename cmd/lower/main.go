package main

import (
	"context"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/lower/compiler"
	"github.com/slowlang/lower/compiler/parse"
)

func main() {
	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	treeCmd := &cli.Command{
		Name:   "tree",
		Action: treeAct,
		Args:   cli.Args{},
	}

	lowerCmd := &cli.Command{
		Name:   "lower,compile",
		Action: lowerAct,
		Args:   cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("max-stack", env.Int("LOWER_MAX_STACK", 0), "operand stack limit, 0 for none"),
		},
	}

	app := &cli.Command{
		Name:        "lower",
		Description: "lower flattens structured control flow trees into label and jump listings",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("comments", env.Bool("LOWER_COMMENTS"), "print node comments"),
			cli.NewFlag("verbosity,v", env.Str("LOWER_VERBOSITY"), "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			parseCmd,
			treeCmd,
			lowerCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		_, x, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("ast: %+v\n", x)
	}

	return nil
}

func treeAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts := compiler.Options{
		Comments: c.Bool("comments"),
	}

	for _, a := range c.Args {
		res, err := compiler.TreeFile(ctx, a, opts)
		if err != nil {
			return errors.Wrap(err, "tree %v", a)
		}

		fmt.Printf("%s", res)
	}

	return nil
}

func lowerAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts := compiler.Options{
		Comments: c.Bool("comments"),
		MaxStack: c.Int("max-stack"),
	}

	for _, a := range c.Args {
		obj, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			return errors.Wrap(err, "lower %v", a)
		}

		fmt.Printf("%s", obj)
	}

	return nil
}
