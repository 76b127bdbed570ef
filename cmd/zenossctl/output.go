package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// printer writes command results in the selected format.
type printer struct {
	w      io.Writer
	format string
}

func (a *app) printer() printer {
	return printer{w: a.stdout, format: a.output}
}

// json writes v as indented JSON.
func (p printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows under a header, or v as JSON when --output json.
func (p printer) table(v any, header []string, rows [][]string) error {
	if p.format == outputJSON {
		return p.json(v)
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// result reports a mutation outcome.
func (p printer) result(v any, msg string) error {
	if p.format == outputJSON {
		return p.json(v)
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}
