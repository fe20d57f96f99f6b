package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/merchant-ops/internal/config"
	"github.com/Veraticus/merchant-ops/internal/tui"
	"github.com/Veraticus/merchant-ops/internal/tui/themes"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive merchant console",
		Long: `Open the interactive merchant console.

Merchants view: search with /, filter with 1-6, sort with v and c,
enter to view, e to edit, n to create. Tab switches to the dashboard.
Edits live for the session only.`,
		RunE: runTUI,
	}

	cmd.Flags().String("theme", "default", "Color theme (default, catppuccin-mocha)")
	cmd.Flags().Bool("inline", false, "Render inline instead of taking over the terminal")

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, err := config.LoadApp()
	if err != nil {
		return err
	}

	repo, err := loadRepository(app)
	if err != nil {
		return err
	}

	themeName, _ := cmd.Flags().GetString("theme")
	inline, _ := cmd.Flags().GetBool("inline")

	return tui.Run(cmd.Context(),
		tui.WithRepository(repo),
		tui.WithTheme(themes.GetTheme(themeName)),
		tui.WithLoadMoreDelay(app.LoadMoreDelay),
		tui.WithSize(app.Width, app.Height),
		tui.WithAltScreen(!inline),
	)
}
