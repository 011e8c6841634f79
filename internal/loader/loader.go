// Package loader acquires raw data, normalizes it into a ledger and stamps
// its provenance. It substitutes sample data when asked to.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/bill-analyzer/internal/fileutils"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/models"
	"fjacquet/bill-analyzer/internal/normalizer"
	"fjacquet/bill-analyzer/internal/parsererror"
	"fjacquet/bill-analyzer/internal/report"
	"fjacquet/bill-analyzer/internal/sample"
	"fjacquet/bill-analyzer/internal/source"

	"github.com/google/uuid"
)

// Kind selects where a ledger comes from.
type Kind string

const (
	File   Kind = "file"
	Notion Kind = "notion"
	Sample Kind = "sample"
)

// FallbackSource labels sample data substituted for a failed load.
const FallbackSource = "sample_fallback"

// Request describes one load.
type Request struct {
	Kind             Kind
	Path             string
	DatabaseID       string
	FallbackToSample bool
}

// Dataset is a loaded ledger with its normalization diagnostics.
type Dataset struct {
	Ledger      models.Ledger
	Diagnostics normalizer.Diagnostics
}

// Provenance of the ledger.
func (d Dataset) Provenance() models.Provenance {
	return d.Ledger.Provenance()
}

// Fetcher reads a remote database into a raw table.
type Fetcher interface {
	Fetch(ctx context.Context, databaseID string) (models.RawTable, error)
}

// Config wires a Loader. Notion and SnapshotDir are optional.
type Config struct {
	Normalizer  *normalizer.Normalizer
	Notion      Fetcher
	Sample      *sample.Generator
	Source      source.Options
	Reports     *report.Generator
	SnapshotDir string
	Logger      logging.Logger
}

// Loader performs loads. It is safe for sequential reuse.
type Loader struct {
	cfg    Config
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

// New builds a loader; a nil sample generator uses the defaults.
func New(cfg Config) *Loader {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDiscardLogger()
	}
	if cfg.Sample == nil {
		cfg.Sample = sample.New(sample.Config{})
	}
	if cfg.Reports == nil {
		cfg.Reports = report.NewGenerator(cfg.Source.Delimiter, cfg.Logger)
	}
	if cfg.Source.Logger == nil {
		cfg.Source.Logger = cfg.Logger
	}
	return &Loader{cfg: cfg, logger: cfg.Logger, now: time.Now, newID: uuid.NewString}
}

// Load acquires and normalizes data. Acquisition and schema failures are
// returned unless FallbackToSample is set, in which case sample data with
// a synthetic provenance and the failure reason is returned instead. An
// empty result also falls back when requested.
func (l *Loader) Load(ctx context.Context, req Request) (Dataset, error) {
	if req.Kind == Sample {
		return l.stamp(l.sampleDataset(models.Provenance{Source: sample.Source, Synthetic: true})), nil
	}

	ds, err := l.acquire(ctx, req)
	if err != nil {
		if !req.FallbackToSample || errors.Is(err, context.Canceled) {
			return Dataset{}, err
		}
		return l.fallback(err.Error()), nil
	}
	if ds.Ledger.IsEmpty() && req.FallbackToSample {
		return l.fallback(fmt.Sprintf("%s produced no valid transactions", req.Kind)), nil
	}
	return l.stamp(ds), nil
}

func (l *Loader) acquire(ctx context.Context, req Request) (Dataset, error) {
	var (
		raw    models.RawTable
		err    error
		origin string
	)
	switch req.Kind {
	case File:
		origin = "file:" + filepath.Base(req.Path)
		raw, err = source.ReadFile(ctx, req.Path, l.cfg.Source)
		if err != nil {
			return Dataset{}, &parsererror.SourceError{Source: origin, Err: err}
		}
	case Notion:
		origin = source.NotionSourceName
		if l.cfg.Notion == nil {
			return Dataset{}, &parsererror.SourceError{Source: origin, Err: errors.New("notion is not configured")}
		}
		raw, err = l.cfg.Notion.Fetch(ctx, req.DatabaseID)
		if err != nil {
			return Dataset{}, err
		}
	default:
		return Dataset{}, fmt.Errorf("unknown source kind %q", req.Kind)
	}

	ledger, diag, err := l.cfg.Normalizer.Normalize(raw)
	if err != nil {
		return Dataset{}, fmt.Errorf("normalizing %s: %w", origin, err)
	}
	ledger = ledger.WithProvenance(models.Provenance{Source: origin})

	if req.Kind == Notion && l.cfg.SnapshotDir != "" && !ledger.IsEmpty() {
		l.snapshot(ledger)
	}
	return Dataset{Ledger: ledger, Diagnostics: diag}, nil
}

func (l *Loader) fallback(reason string) Dataset {
	l.logger.Warn("Falling back to sample data",
		logging.F(logging.FieldReason, reason),
		logging.F(logging.FieldSynthetic, true))
	return l.stamp(l.sampleDataset(models.Provenance{Source: FallbackSource, Synthetic: true, Reason: reason}))
}

func (l *Loader) sampleDataset(prov models.Provenance) Dataset {
	ledger := l.cfg.Sample.Generate()
	return Dataset{
		Ledger:      ledger.WithProvenance(prov),
		Diagnostics: normalizer.Diagnostics{InputRows: ledger.Len(), OutputRows: ledger.Len()},
	}
}

// stamp sets the load id and time.
func (l *Loader) stamp(ds Dataset) Dataset {
	prov := ds.Ledger.Provenance()
	prov.LoadID = l.newID()
	prov.LoadedAt = l.now()
	ds.Ledger = ds.Ledger.WithProvenance(prov)

	fields := []logging.Field{
		logging.F(logging.FieldSource, prov.Source),
		logging.F(logging.FieldLoadID, prov.LoadID),
		logging.F(logging.FieldCount, ds.Ledger.Len()),
		logging.F(logging.FieldDropped, ds.Diagnostics.Dropped()),
	}
	if prov.Synthetic {
		fields = append(fields, logging.F(logging.FieldSynthetic, true))
	}
	l.logger.Info("Ledger loaded", fields...)
	return ds
}

// snapshot keeps a CSV copy of remote data; failures are only logged.
func (l *Loader) snapshot(ledger models.Ledger) {
	name := fileutils.TimestampedName("notion_bills", ".csv", l.now())
	path := filepath.Join(l.cfg.SnapshotDir, name)
	if err := l.cfg.Reports.ExportLedger(path, ledger); err != nil {
		l.logger.WithError(err).Warn("Failed to write Notion snapshot", logging.F(logging.FieldFile, path))
		return
	}
	l.logger.Debug("Wrote Notion snapshot", logging.F(logging.FieldFile, path))
}

// ParseKind maps a name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case File, Notion, Sample:
		return k, nil
	}
	return "", fmt.Errorf("unknown source kind %q (valid: file, notion, sample)", s)
}
