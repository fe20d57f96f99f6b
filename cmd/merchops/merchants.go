package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/merchant-ops/internal/cli"
	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/config"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

func merchantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "merchants",
		Aliases: []string{"m"},
		Short:   "List and inspect merchants",
	}

	cmd.AddCommand(merchantsListCmd())
	cmd.AddCommand(merchantsShowCmd())

	return cmd
}

func merchantsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List merchants",
		Long: `List merchants with the same search, filter and sort rules as the console.

Examples:
  merchops merchants list --status active --risk high
  merchops merchants list --search tech --sort volume --desc`,
		Args: cobra.NoArgs,
		RunE: runMerchantsList,
	}

	addQueryFlags(cmd)
	cmd.Flags().IntP("limit", "n", 0, "Show at most this many merchants (0 = all)")

	return cmd
}

func runMerchantsList(cmd *cobra.Command, _ []string) error {
	query, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	app, err := config.LoadApp()
	if err != nil {
		return err
	}
	repo, err := loadRepository(app)
	if err != nil {
		return err
	}

	derived := viewmodel.Derive(repo.List(), query)
	shown := derived
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	out := cmd.OutOrStdout()
	if len(shown) == 0 {
		msg := "No merchants yet"
		if query.HasFilter() {
			msg = "No merchants match the current filters"
		}
		_, err := fmt.Fprintln(out, cli.FormatInfo(msg))
		return err
	}

	if _, err := fmt.Fprint(out, cli.RenderMerchantTable(shown)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, cli.SubtleStyle.Render(
		fmt.Sprintf("Showing %d of %d merchants", len(shown), len(derived))))
	return err
}

func merchantsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one merchant",
		Args:  cobra.ExactArgs(1),
		RunE:  runMerchantsShow,
	}
}

func runMerchantsShow(cmd *cobra.Command, args []string) error {
	app, err := config.LoadApp()
	if err != nil {
		return err
	}
	repo, err := loadRepository(app)
	if err != nil {
		return err
	}

	view, err := viewmodel.NewDetailView(repo, viewmodel.ModeView, args[0])
	if errors.Is(err, common.ErrNotFound) {
		return common.NewUserError(fmt.Sprintf("merchant %s not found", args[0]), err)
	}
	if err != nil {
		return err
	}

	merchant, _ := view.Merchant()
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderMerchant(merchant, view.ShowWarning()))
	return err
}
