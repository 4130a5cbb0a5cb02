package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Makepad-fr/todogui/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "TOML settings file")
	backend := flag.String("backend", "", "ui backend: tea, tcell or headless")
	theme := flag.String("theme", "", "color theme: classic, neon or mono")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		ConfigPath: *configPath,
		Backend:    *backend,
		Theme:      *theme,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
