package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"census/internal/imports/fixtures"
	"census/internal/imports/models"
)

func newGenCmd() *cobra.Command {
	var (
		seed uint64
		out  string
	)
	cmd := &cobra.Command{
		Use:   "gen <n>",
		Short: "Write a valid batch of n generated citizens as JSON",
		Args:  cobra.ExactArgs(1),
		// The generator needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("n must be a positive integer, got %q", args[0])
			}
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeBatch(w, fixtures.New(seed, models.DateOf(time.Now())).Batch(n))
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 13, "generator seed")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	return cmd
}

func writeBatch(w io.Writer, batch fixtures.Batch) error {
	return json.NewEncoder(w).Encode(batch)
}
