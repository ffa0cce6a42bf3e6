package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/interchange"
	"github.com/example/schedule-dashboard/internal/persistence/sqlite"
)

type transferFlags struct {
	collection string
	format     string
}

func (f *transferFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.collection, "collection", "", "classes or events")
	cmd.Flags().StringVar(&f.format, "format", string(interchange.FormatJSON), "json or csv")
	_ = cmd.MarkFlagRequired("collection")
}

func (f *transferFlags) parse() (application.Collection, interchange.Format, error) {
	collection, err := collectionArg(f.collection)
	if err != nil {
		return "", "", err
	}
	format, err := interchange.ParseFormat(f.format)
	if err != nil {
		return "", "", fmt.Errorf("--format must be json or csv: %w", err)
	}
	return collection, format, nil
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		flags transferFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a collection as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collection, format, err := flags.parse()
			if err != nil {
				return err
			}
			logger, err := opts.logger(cmd)
			if err != nil {
				return err
			}
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			storage, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore(ctx, storage, logger)

			service := application.NewTransferServiceWithLogger(
				sqlite.NewClassRepository(storage), sqlite.NewEventRepository(storage), nil, nil, logger)

			var buf bytes.Buffer
			count, err := service.Export(ctx, collection, format, &buf)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = io.Copy(cmd.OutOrStdout(), &buf)
			} else {
				err = os.WriteFile(out, buf.Bytes(), 0o644)
			}
			if err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			logger.InfoContext(ctx, "collection exported", "collection", collection, "format", format, "count", count)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var (
		flags transferFlags
		file  string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import records from a JSON or CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collection, format, err := flags.parse()
			if err != nil {
				return err
			}
			logger, err := opts.logger(cmd)
			if err != nil {
				return err
			}
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open import file: %w", err)
				}
				defer f.Close()
				in = f
			}

			ctx := cmd.Context()
			storage, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore(ctx, storage, logger)

			service := application.NewTransferServiceWithLogger(
				sqlite.NewClassRepository(storage), sqlite.NewEventRepository(storage), nil, nil, logger)

			result, err := service.Import(ctx, collection, format, in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, result.Notice().Message)
			for _, failure := range result.Failures {
				fmt.Fprintf(w, "  registro %d: %s\n", failure.Index, failure.Reason)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&file, "file", "", "File to import, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newResetCommand(opts *rootOptions) *cobra.Command {
	var (
		collectionName string
		confirmed      bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record of a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collection, err := collectionArg(collectionName)
			if err != nil {
				return err
			}
			if !confirmed {
				return errors.New("reset removes every record; pass --yes to confirm")
			}
			logger, err := opts.logger(cmd)
			if err != nil {
				return err
			}
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			storage, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore(ctx, storage, logger)

			switch collection {
			case application.CollectionClasses:
				err = application.NewClassServiceWithLogger(sqlite.NewClassRepository(storage), nil, logger).Reset(ctx)
			case application.CollectionEvents:
				err = application.NewEventServiceWithLogger(sqlite.NewEventRepository(storage), nil, logger).Reset(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "coleção %s apagada\n", collection)
			return nil
		},
	}
	cmd.Flags().StringVar(&collectionName, "collection", "", "classes or events")
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the reset")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}
