// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/bill-analyzer/cmd/root"
	"fjacquet/bill-analyzer/internal/config"
	"fjacquet/bill-analyzer/internal/container"
	"fjacquet/bill-analyzer/internal/loader"
	"fjacquet/bill-analyzer/internal/metrics"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/views"
)

// BuildRequest picks the source: --sample, then --input, then a Notion
// database from the flag or the config. With none of them sample data is used.
func BuildRequest(flags root.CommonFlags, cfg *config.Config) loader.Request {
	req := loader.Request{FallbackToSample: flags.FallbackSample || cfg.Source.FallbackToSample}
	dbID := flags.NotionDB
	if dbID == "" {
		dbID = cfg.Notion.DatabaseID
	}
	switch {
	case flags.Sample:
		req.Kind = loader.Sample
	case flags.Input != "":
		req.Kind = loader.File
		req.Path = flags.Input
	case dbID != "":
		req.Kind = loader.Notion
		req.DatabaseID = dbID
	default:
		req.Kind = loader.Sample
	}
	return req
}

// Filter parses the shared filter flags.
func Filter(flags root.CommonFlags) (models.Filter, error) {
	return views.FilterParams{
		From:       flags.From,
		To:         flags.To,
		Categories: flags.Category,
		Min:        flags.Min,
		Max:        flags.Max,
	}.Filter()
}

// LoadLedger loads the dataset selected by flags and applies the filter
// flags. Notes about synthetic data and dropped rows go to notes.
func LoadLedger(ctx context.Context, c *container.Container, flags root.CommonFlags, notes io.Writer) (loader.Dataset, models.Ledger, error) {
	f, err := Filter(flags)
	if err != nil {
		return loader.Dataset{}, models.Ledger{}, err
	}
	ds, err := c.GetLoader().Load(ctx, BuildRequest(flags, c.GetConfig()))
	if err != nil {
		return loader.Dataset{}, models.Ledger{}, err
	}
	Announce(notes, ds)

	l := ds.Ledger
	if f.IsZero() {
		return ds, l, nil
	}
	filtered := l.Filter(f)
	if filtered.IsEmpty() && !l.IsEmpty() {
		return ds, filtered, &metrics.QueryError{Kind: metrics.KindEmptyFilter, Message: "no transactions match the filter"}
	}
	return ds, filtered, nil
}

// Announce states where the data came from when it is synthetic and how
// many rows normalization dropped.
func Announce(w io.Writer, ds loader.Dataset) {
	prov := ds.Provenance()
	if prov.Synthetic {
		if prov.Reason != "" {
			fmt.Fprintf(w, "Note: showing synthetic sample data (%s).\n", prov.Reason)
		} else {
			fmt.Fprintln(w, "Note: showing synthetic sample data.")
		}
	}
	if n := ds.Diagnostics.Dropped(); n > 0 {
		fmt.Fprintf(w, "Note: %d of %d rows were dropped during normalization.\n", n, ds.Diagnostics.InputRows)
	}
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Context returns the command context or a background one.
func Context(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
