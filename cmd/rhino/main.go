// Command rhino drives the guitar processor from the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	_ "github.com/cwbudde/algo-rhino/dsp/amp"
)

var version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	LogLevel  string `help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,error"`
	LogFormat string `help:"Log format (text, json)" default:"text" enum:"text,json"`

	logger *slog.Logger
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version information"`
	Params   ParamsCmd        `cmd:"" help:"List the processor parameters"`
	Render   RenderCmd        `cmd:"" help:"Process raw float32 PCM"`
	Tune     TuneCmd          `cmd:"" help:"Edit parameters interactively"`
	Audition AuditionCmd      `cmd:"" help:"Play a test tone through the processor"`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("rhino"),
		kong.Description("Guitar head and cabinet simulator"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
	)

	cli.logger = newLogger(cli.LogLevel, cli.LogFormat)
	slog.SetDefault(cli.logger)

	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "rhino: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
