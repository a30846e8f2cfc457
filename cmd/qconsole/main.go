package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Qthai16/strqueue/common/console"
	"github.com/Qthai16/strqueue/common/stats"
	"github.com/Qthai16/strqueue/utils"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:        "qconsole",
		Usage:       "run queue commands from a script or stdin",
		Description: "an interactive string queue console; `help` lists the commands",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "read commands from `FILE` instead of stdin",
			},
			&cli.StringFlag{
				Name:  "cmp",
				Usage: "value ordering: lexical or natural",
				Value: console.CmpLexical,
			},
			&cli.IntFlag{
				Name:  "length",
				Usage: "bytes kept from a removed value",
				Value: console.DefaultLength,
			},
			&cli.BoolFlag{
				Name:  "echo",
				Usage: "print each command before running it",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed for RAND values, 0 is time based",
			},
			&cli.StringFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log level",
				Value:   "warn",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "count commands, `stats` prints them",
			},
		},
		Action: runConsole,
	}
}

func runConsole(ctx *cli.Context) error {
	if err := utils.SetLevel(ctx.String("verbose")); err != nil {
		return cli.Exit(err, 2)
	}
	cmp := ctx.String("cmp")
	if cmp != console.CmpLexical && cmp != console.CmpNatural {
		return cli.Exit(fmt.Sprintf("unknown comparator %q", cmp), 2)
	}
	var in io.Reader = os.Stdin
	if path := ctx.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cli.Exit(err, 2)
		}
		defer f.Close()
		in = f
	}
	conf := console.Config{
		Session: "local",
		Seed:    ctx.Int64("seed"),
		Options: console.Options{
			Compare: cmp,
			Length:  ctx.Int("length"),
			Echo:    ctx.Bool("echo"),
		},
	}
	if ctx.Bool("stats") {
		conf.Stats = stats.NewStats()
	}
	out := ctx.App.Writer
	c := console.New(out, conf)
	failed, err := c.Run(in)
	n := c.Close()
	fmt.Fprintf(out, "Freeing queues, %d elements released\n", n)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d commands failed", failed), 1)
	}
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		utils.LogFatal("%v", err)
	}
}
