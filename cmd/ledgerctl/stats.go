package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/infrastructure/export"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the financial snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			companyID, err := root.companyID()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			services, _, log, err := root.connect(ctx)
			if err != nil {
				return err
			}
			defer services.Close(ctx, log)

			summary, err := services.Finance.GetFinancialStats(ctx, companyID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, summary)
			}
			fmt.Fprintf(out, "Ventas del día:       %s\n", export.Amount(summary.DailySales))
			fmt.Fprintf(out, "Caja actual:          %s\n", export.Amount(summary.CurrentCashBalance))
			fmt.Fprintf(out, "Cuentas por cobrar:   %s\n", export.Amount(summary.AccountsReceivable))
			fmt.Fprintf(out, "Cuentas por pagar:    %s\n", export.Amount(summary.AccountsPayable))
			fmt.Fprintf(out, "Ganancia del mes:     %s\n", export.Amount(summary.MonthlyProfit))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newBalanceCmd(root *rootOptions) *cobra.Command {
	var customer, supplier string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print a customer or supplier balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (customer == "") == (supplier == "") {
				return fmt.Errorf("exactly one of --customer or --supplier is required")
			}
			companyID, err := root.companyID()
			if err != nil {
				return err
			}
			raw := customer
			if raw == "" {
				raw = supplier
			}
			partyID, err := id.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid party id %q: %w", raw, err)
			}

			ctx := cmd.Context()
			services, _, log, err := root.connect(ctx)
			if err != nil {
				return err
			}
			defer services.Close(ctx, log)

			lookup := services.Accounts.GetCustomerBalance
			if supplier != "" {
				lookup = services.Accounts.GetSupplierBalance
			}
			balance, err := lookup(ctx, companyID, partyID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), export.Amount(balance))
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer id")
	cmd.Flags().StringVar(&supplier, "supplier", "", "Supplier id")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
