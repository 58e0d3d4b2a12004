package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/rewrite-export/internal/config"
	"github.com/woozymasta/rewrite-export/internal/logger"
	"github.com/woozymasta/rewrite-export/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to conversion settings file (YAML), built-in defaults if empty"`

	Args struct {
		Input string `positional-arg-name:"INPUT" description:"Newline delimited JSON export, must end in .json"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if err := run(opts, os.Stdout); err != nil {
		log.Fatal().Err(err).Str("input", opts.Args.Input).Msg("Rewrite failed")
	}
}

// run converts the input and prints the resulting column list to stdout.
func run(opts Options, stdout io.Writer) error {
	// reject the input name before loading anything from disk
	if _, err := processor.OutputPath(opts.Args.Input); err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	res, err := processor.ProcessFile(cfg, opts.Args.Input)
	if err != nil {
		return err
	}

	columns, err := json.Marshal(res.Columns)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, string(columns))
	return err
}
