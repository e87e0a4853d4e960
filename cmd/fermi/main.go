package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Run the Fermi game server"`
	Problems ProblemsCmd      `cmd:"" help:"Inspect the built-in problem corpus"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("fermi"),
		kong.Description("Two-player order-of-magnitude estimation wagering game"),
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
