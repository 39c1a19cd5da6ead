// Command nonprofit-etl normalizes a raw nonprofit directory export (CSV or
// XLSX) into the fixed eleven-column table the directory site consumes,
// optionally geocoding rows that lack coordinates.
//
// Usage:
//
//	nonprofit-etl --in raw.csv --out nonprofits.csv --geocode
package main

import (
	"fmt"
	"os"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}
