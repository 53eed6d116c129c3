package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpolish/cmd/docpolish/commands"
	"git.home.luguber.info/inful/docpolish/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("docpolish"),
		kong.Description("Polishes generated API documentation: highlight rewriting, site assets, preview."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("docpolish %s (%s)", version.Version, version.GitCommit)},
	)

	if err := ctx.Run(&commands.Global{}, &cli); err != nil {
		fmt.Fprintf(os.Stderr, "docpolish: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}
