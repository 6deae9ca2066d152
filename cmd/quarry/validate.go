package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/quarryml/quarry/trainer"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check a run config for contradictory callback options",
		Flags: append([]cli.Flag{configFlag()}, loggingFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := LoadRunConfig(configPath)
			if err != nil {
				return err
			}

			opts := cfg.Options()
			opts.Logger = newLogger()
			tr, err := trainer.New(opts)
			if err != nil {
				return err
			}

			fmt.Printf("configuration OK: %d callbacks resolved\n", len(tr.Callbacks))
			return nil
		},
	}
}
