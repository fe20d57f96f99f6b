package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/merchant-ops/internal/cli"
	"github.com/Veraticus/merchant-ops/internal/config"
	"github.com/Veraticus/merchant-ops/internal/export"
	"github.com/Veraticus/merchant-ops/internal/sheets"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export merchants and dashboard stats",
		Long: `Export the merchant list together with the dashboard summary.

Formats:
  csv     one row per merchant (file or stdout)
  json    summary plus merchants (file or stdout)
  sqlite  a snapshot database at --output
  sheets  the "Merchants" tab of a Google Sheets spreadsheet

The search, filter and sort flags narrow the export the same way they
narrow 'merchants list'.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", config.DefaultExportFormat, "Output format (csv, json, sqlite, sheets)")
	cmd.Flags().StringP("output", "o", "", "Output path (default: stdout for csv and json)")
	cmd.Flags().Bool("force", false, "Overwrite an existing output file without asking")
	cmd.Flags().BoolP("quiet", "q", false, "Hide the progress bar")
	addQueryFlags(cmd)

	_ = viper.BindPFlag("export.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("export.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(viper.GetString("export.format"))
	if err != nil {
		return err
	}
	output := config.ExpandPath(viper.GetString("export.output"))
	force, _ := cmd.Flags().GetBool("force")
	quiet, _ := cmd.Flags().GetBool("quiet")

	query, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	app, err := config.LoadApp()
	if err != nil {
		return err
	}
	repo, err := loadRepository(app)
	if err != nil {
		return err
	}
	merchants := viewmodel.Derive(repo.List(), query)

	stderr := cmd.ErrOrStderr()
	if format != export.FormatSheets && !force {
		ok, err := confirmOverwrite(cmd.Context(), cmd.InOrStdin(), stderr, output)
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(stderr, cli.FormatInfo("Export cancelled"))
			return err
		}
	}

	target := output
	if format == export.FormatSheets {
		target = ""
	}
	handler := cli.NewInterruptHandler(stderr)
	ctx := handler.HandleInterrupts(cmd.Context(), target)

	var progress export.Progress
	if !quiet {
		progress = newProgressBar(stderr, format)
	}

	exporter := &export.Exporter{
		Stdout: cmd.OutOrStdout(),
		Logger: slog.Default(),
	}
	if format == export.FormatSheets {
		writer, err := newSheetsWriter(ctx)
		if err != nil {
			return err
		}
		if progress != nil {
			writer.OnProgress(progress)
		}
		exporter.Sheets = writer
	}

	if err := exporter.Export(ctx, merchants, export.Request{
		Format:   format,
		Output:   output,
		Progress: progress,
	}); err != nil {
		if handler.WasInterrupted() {
			return context.Canceled
		}
		return err
	}

	dest := output
	switch {
	case format == export.FormatSheets:
		dest = "Google Sheets"
	case dest == "" || dest == "-":
		dest = "stdout"
	}
	_, err = fmt.Fprintln(stderr, cli.FormatSuccess(fmt.Sprintf("Exported %d merchants to %s", len(merchants), dest)))
	return err
}

// confirmOverwrite asks before replacing an existing file. Stdout and new
// files need no confirmation.
func confirmOverwrite(ctx context.Context, in io.Reader, out io.Writer, path string) (bool, error) {
	if path == "" || path == "-" {
		return true, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return true, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}

	return cli.NewNonBlockingReader(in).Confirm(ctx, out, fmt.Sprintf("%s exists. Overwrite?", path))
}

// newProgressBar returns a Progress that draws a bar sized on the first call.
func newProgressBar(w io.Writer, format export.Format) export.Progress {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]Exporting %s...[reset]", format)),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					_, _ = fmt.Fprintln(w)
				}),
			)
		}
		if err := bar.Set(done); err != nil {
			slog.Debug("progress bar update failed", "error", err)
		}
	}
}

func newSheetsWriter(ctx context.Context) (*sheets.Writer, error) {
	if viper.GetString("sheets.refresh_token") == "" {
		if token, err := sheets.LoadToken(config.SheetsTokenFile()); err == nil && token.RefreshToken != "" {
			viper.Set("sheets.refresh_token", token.RefreshToken)
		}
	}

	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, fmt.Errorf("google sheets is not configured (run 'merchops auth sheets'): %w", err)
	}
	return sheets.NewWriter(ctx, *cfg, slog.Default())
}
