package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/quarryml/quarry/trainer"
)

type planEntry struct {
	Position int    `json:"position"`
	Kind     string `json:"kind"`
	Type     string `json:"type"`
}

type plan struct {
	Callbacks             []planEntry `json:"callbacks"`
	AccumulateGradBatches int         `json:"accumulate_grad_batches"`
	ProgressDisplay       string      `json:"progress_display,omitempty"`
	WeightsSummary        string      `json:"weights_summary,omitempty"`
}

func planCmd() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Resolve a run config into its callback plan and print it as JSON",
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

			p := plan{
				AccumulateGradBatches: tr.AccumulateGradBatches,
				WeightsSummary:        tr.WeightsSummary,
			}
			for i, cb := range tr.Callbacks {
				p.Callbacks = append(p.Callbacks, planEntry{
					Position: i,
					Kind:     cb.Kind().String(),
					Type:     fmt.Sprintf("%T", cb),
				})
			}
			if display := tr.ProgressBar(); display != nil {
				p.ProgressDisplay = fmt.Sprintf("%T", display)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
}
