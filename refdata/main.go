// Command refdata prints exchange rates and security reference data.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/refdata/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("refdata")

	commander := subcommands.NewCommander(flag.CommandLine, "refdata")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
