package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"census/internal/imports/handler"
	"census/internal/imports/models"
	dErrors "census/pkg/domain-errors"
)

func newLoadCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Import a batch file, as POST /imports would, and print its import id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
}

func (c *cli) load(ctx context.Context, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var req handler.CreateImportRequest
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if err := req.Validate(models.DateOf(time.Now())); err != nil {
		return fmt.Errorf("%s: %s", path, dErrors.Message(err))
	}

	a, err := newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.close()

	importID, err := a.service.CreateImport(ctx, req.ParsedCitizens())
	a.publisher.Close()
	if runErr := a.worker.Run(ctx); runErr != nil {
		c.logger.WarnContext(ctx, "audit delivery interrupted", "error", runErr)
	}
	if err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) {
			return fmt.Errorf("%s: %s", de.Code, de.Message)
		}
		return err
	}
	_, err = fmt.Fprintln(out, importID)
	return err
}
