package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/dbarros/tally/internal/cli"
	"github.com/dbarros/tally/internal/config"
	"github.com/dbarros/tally/internal/phpreport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	app := &cli.App{
		Service: phpreport.NewClient(cfg.ServiceURL, cfg.Login, cfg.Password),
		Out:     os.Stdout,
		Err:     os.Stderr,
		Now:     time.Now,
	}

	// Ambiguous search terms are only worth prompting about on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
