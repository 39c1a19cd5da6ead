// Command validate checks a normalized nonprofits table against the output
// contract: the fixed header, a name on every row, and canonical formats for
// phones, EINs, websites, states, ratings and coordinates.
//
// Usage:
//
//	go run ./cmd/validate nonprofits.csv
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/nonprofit-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/nonprofit-etl/internal/config"
	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"github.com/spf13/cobra"
)

func main() {
	if err := newValidateCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newValidateCmd() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:          "validate <nonprofits.csv>",
		Short:        "Check a normalized nonprofits table for contract violations",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			comma, err := config.ParseDelimiter(delimiter)
			if err != nil {
				return err
			}

			table, err := csvfile.NewReader(args[0], comma).Extract(cmd.Context())
			if err != nil {
				return err
			}
			if !report(cmd.OutOrStdout(), table, runPhases(table)) {
				return fmt.Errorf("%s failed validation", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", `field delimiter of the table ("\t" or "tab" for tab)`)
	return cmd
}

func runPhases(table domain.Table) []*phase {
	return []*phase{
		validateHeader(table.Header),
		validateRequiredFields(table.Rows),
		validateFormats(table.Rows),
		validateCoordinates(table.Rows),
	}
}

// report prints a pass/fail line per phase followed by the details of each
// failure, and reports whether every phase passed.
func report(w io.Writer, table domain.Table, phases []*phase) bool {
	fmt.Fprintln(w, "=== Nonprofit Table Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-24s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows: %d in %s\n", len(table.Rows), table.Source)

	const maxShown = 20
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxShown {
				fmt.Fprintf(w, "  ... and %d more\n", len(p.errors)-maxShown)
				break
			}
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	return allPassed
}
