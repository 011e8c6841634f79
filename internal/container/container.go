// Package container provides dependency injection for bill-analyzer.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/bill-analyzer/internal/categorizer"
	"fjacquet/bill-analyzer/internal/config"
	"fjacquet/bill-analyzer/internal/currencyutils"
	"fjacquet/bill-analyzer/internal/insights"
	"fjacquet/bill-analyzer/internal/loader"
	"fjacquet/bill-analyzer/internal/logging"
	"fjacquet/bill-analyzer/internal/narrator"
	"fjacquet/bill-analyzer/internal/normalizer"
	"fjacquet/bill-analyzer/internal/report"
	"fjacquet/bill-analyzer/internal/retention"
	"fjacquet/bill-analyzer/internal/sample"
	"fjacquet/bill-analyzer/internal/source"
	"fjacquet/bill-analyzer/internal/store"

	"golang.org/x/text/language"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	categorizer *categorizer.Categorizer
	normalizer  *normalizer.Normalizer
	sample      *sample.Generator
	reports     *report.Generator
	loader      *loader.Loader
	insights    *insights.Generator
	money       *currencyutils.Formatter
	narrator    narrator.Narrator
	sweeper     *retention.Sweeper
	closers     []func() error
}

// Option adjusts a container under construction.
type Option func(*options)

type options struct {
	logger  logging.Logger
	querier source.DatabaseQuerier
}

// WithLogger replaces the logger derived from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithNotionQuerier replaces the Notion API client, mainly for tests.
func WithNotionQuerier(q source.DatabaseQuerier) Option {
	return func(o *options) { o.querier = q }
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	ruleStore := store.NewRuleStore(cfg.Categories.File, logger)
	rules, err := ruleStore.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}
	cat, err := categorizer.New(rules, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create categorizer: %w", err)
	}

	norm := normalizer.New(cat, logger)
	gen := sample.New(sample.Config{Count: cfg.Sample.Count, Seed: cfg.Sample.Seed})
	reports := report.NewGenerator(cfg.Delimiter(), logger)

	var notion loader.Fetcher
	querier := o.querier
	if querier == nil && cfg.Notion.Token != "" {
		querier = source.NewNotionClient(cfg.Notion.Token)
	}
	if querier != nil {
		notion = source.NewNotionSource(querier, logger)
	}

	snapshotDir := ""
	if cfg.Notion.Snapshot {
		snapshotDir = cfg.Report.Directory
	}

	ld := loader.New(loader.Config{
		Normalizer:  norm,
		Notion:      notion,
		Sample:      gen,
		Source:      source.Options{Delimiter: cfg.Delimiter(), Logger: logger},
		Reports:     reports,
		SnapshotDir: snapshotDir,
		Logger:      logger,
	})

	money := currencyutils.NewFormatter(cfg.Insights.CurrencySymbol, language.English)
	insightGen := insights.NewGenerator(logger, insights.WithFormatter(money))

	c := &Container{
		logger:      logger,
		config:      cfg,
		store:       ruleStore,
		categorizer: cat,
		normalizer:  norm,
		sample:      gen,
		reports:     reports,
		loader:      ld,
		insights:    insightGen,
		money:       money,
		narrator:    narrator.Plain{},
	}

	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		g, err := narrator.NewGemini(context.Background(), cfg.AI.APIKey, cfg.AI.Model, cfg.AITimeout(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create narrator: %w", err)
		}
		c.narrator = g
		c.closers = append(c.closers, g.Close)
		logger.Info("AI narrative enabled", logging.F("model", cfg.AI.Model))
	} else {
		logger.Debug("AI narrative disabled")
	}

	if cfg.Retention.Enabled {
		c.sweeper = retention.NewSweeper(cfg.Retention.Directory, cfg.RetentionMaxAge(), cfg.RetentionInterval(), logger)
	}

	logger.Debug("Container initialized successfully",
		logging.F("rules_version", cat.Version()),
		logging.F("notion_enabled", notion != nil),
		logging.F("ai_enabled", cfg.AI.Enabled))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetRuleStore returns the category rule store.
func (c *Container) GetRuleStore() *store.RuleStore { return c.store }

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer { return c.categorizer }

// GetNormalizer returns the ledger normalizer.
func (c *Container) GetNormalizer() *normalizer.Normalizer { return c.normalizer }

// GetSampleGenerator returns the configured sample generator.
func (c *Container) GetSampleGenerator() *sample.Generator { return c.sample }

// GetReportGenerator returns the report writer.
func (c *Container) GetReportGenerator() *report.Generator { return c.reports }

// GetLoader returns the ledger loader.
func (c *Container) GetLoader() *loader.Loader { return c.loader }

// GetInsightGenerator returns the insight generator.
func (c *Container) GetInsightGenerator() *insights.Generator { return c.insights }

// GetFormatter returns the money formatter for the configured currency.
func (c *Container) GetFormatter() *currencyutils.Formatter { return c.money }

// GetNarrator returns the Gemini narrator when AI is enabled, otherwise a
// plain one.
func (c *Container) GetNarrator() narrator.Narrator { return c.narrator }

// GetSweeper returns the retention sweeper, or nil when retention is disabled.
func (c *Container) GetSweeper() *retention.Sweeper { return c.sweeper }

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.logger.Debug("Container closed")
	return firstErr
}
