package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bilgisen/visacms/internal/admin"
)

type printer struct {
	w    io.Writer
	json bool
}

// tabular is the part of fields the printer needs
type tabular[R admin.Record] interface {
	columns() []string
	row(rec R) []string
}

func printEntries[R admin.Record](p printer, entries []admin.Entry[R], t tabular[R]) error {
	if p.json {
		records := make([]R, len(entries))
		for i, e := range entries {
			records[i] = e.Record
		}
		return writeJSON(p.w, records)
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.columns(), "\t"))
	for _, e := range entries {
		fmt.Fprintln(tw, strings.Join(t.row(e.Record), "\t"))
	}
	return tw.Flush()
}

func printRecord[R admin.Record](p printer, rec R, t tabular[R]) error {
	if p.json {
		return writeJSON(p.w, rec)
	}
	return printEntries(p, []admin.Entry[R]{{Record: rec}}, t)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
