package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the websocket game server"`
	Play    PlayCmd          `cmd:"" help:"Run a full social game in the terminal"`
	Casino  CasinoCmd        `cmd:"" help:"Play a casino ladder session with advisor hints"`
	Odds    OddsCmd          `cmd:"" help:"Print the odds tables behind the advisor"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ridethebus"),
		kong.Description("Ride the Bus rule engine, server and strategy advisor"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// setupLogger configures logging for all commands.
func setupLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
