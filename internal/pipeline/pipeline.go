// Package pipeline orchestrates the batch run: ingest movement events,
// standardize identities, align stay intervals, enrich against the berth
// dictionary, match the trade manifest, and write versioned outputs.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/wsd3/rivercall/internal/adapter/csvfile"
	"github.com/wsd3/rivercall/internal/config"
	"github.com/wsd3/rivercall/internal/domain"
	"github.com/wsd3/rivercall/internal/observability"
)

// Result summarizes one completed batch run.
type Result struct {
	RunID string

	EventsIngested int
	EventsExcluded int
	EventsRejected int

	Intervals         int
	IntervalsByStatus map[domain.IntervalStatus]int

	DictionaryEntries    int
	DictionaryDuplicates int
	DictionaryHits       int

	ManifestRows int
	Processed    int
	TimedOut     bool
	Cancelled    bool
	MatchStats   domain.MatchStats

	IntervalsPath string
	OutputPath    string
	Elapsed       time.Duration
}

// MatchRate returns matched rows as a fraction of processed rows.
func (r *Result) MatchRate() float64 {
	if r.Processed == 0 {
		return 0
	}
	return float64(r.MatchStats.Matched) / float64(r.Processed)
}

// Pipeline wires the run stages together with observability.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	writer  *csvfile.Writer
	ready   atomic.Bool
	lastRun atomic.Pointer[Result]
}

// New creates a Pipeline for the given configuration.
func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		writer:  csvfile.NewWriter(),
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one run.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no batch run has completed yet")
	}
	return nil
}

// LastResult returns the most recent completed run, or nil before the first.
func (p *Pipeline) LastResult() *Result {
	return p.lastRun.Load()
}

// Run executes one full batch: all stages through the matched-manifest write.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	start := time.Now()

	p.metrics.RunActive.Set(1)
	defer p.metrics.RunActive.Set(0)

	logger.Info("run started",
		"input_dir", p.cfg.InputDir,
		"berth_dictionary", p.cfg.BerthDictionary,
		"manifest", p.cfg.Manifest,
	)

	res := &Result{RunID: runID}

	enriched, err := p.buildIntervals(ctx, logger, res)
	if err != nil {
		return nil, err
	}

	if err := p.matchManifest(ctx, logger, enriched, res); err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(start)
	p.metrics.RunDuration.Observe(res.Elapsed.Seconds())
	p.metrics.RunsCompleted.Inc()
	p.ready.Store(true)
	p.lastRun.Store(res)

	logger.Info("run finished",
		"elapsed", res.Elapsed,
		"matched", res.MatchStats.Matched,
		"not_matched", res.MatchStats.NotMatched,
		"errors", res.MatchStats.Errors,
		"output", res.OutputPath,
	)
	return res, nil
}

// RunAlign executes the interval stages only and writes the enriched interval
// export, skipping the manifest. Useful when the manifest is not yet available
// for the period.
func (p *Pipeline) RunAlign(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	start := time.Now()

	p.metrics.RunActive.Set(1)
	defer p.metrics.RunActive.Set(0)

	res := &Result{RunID: runID}
	if _, err := p.buildIntervals(ctx, logger, res); err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(start)
	p.metrics.RunDuration.Observe(res.Elapsed.Seconds())
	p.metrics.RunsCompleted.Inc()
	p.ready.Store(true)
	p.lastRun.Store(res)

	logger.Info("align run finished", "elapsed", res.Elapsed, "intervals", res.Intervals, "output", res.IntervalsPath)
	return res, nil
}

// buildIntervals runs ingest, standardize, align, and enrich, writes the
// interval export, and returns the enriched set for matching.
func (p *Pipeline) buildIntervals(ctx context.Context, logger *slog.Logger, res *Result) ([]domain.EnrichedInterval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage := time.Now()
	raw, err := csvfile.ReadMovementDir(p.cfg.InputDir, logger)
	if err != nil {
		return nil, err
	}
	res.EventsIngested = len(raw)
	p.metrics.EventsIngested.Add(float64(len(raw)))
	p.observeStage("ingest", stage)
	logger.Info("movement events ingested", "events", len(raw))

	stage = time.Now()
	exclude := domain.NewExclusionSet(p.cfg.ExcludedVesselNames)
	events, stats := domain.Standardize(raw, exclude)
	res.EventsExcluded = stats.Excluded
	res.EventsRejected = stats.Rejected
	p.metrics.EventsExcluded.Add(float64(stats.Excluded))
	p.metrics.EventsRejected.Add(float64(stats.Rejected))

	aligner := domain.NewAligner(p.cfg.SpecialZoneLabel)
	intervals := aligner.Align(events)
	res.Intervals = len(intervals)
	res.IntervalsByStatus = make(map[domain.IntervalStatus]int, 5)
	for _, iv := range intervals {
		res.IntervalsByStatus[iv.Status]++
		p.metrics.Intervals.WithLabelValues(string(iv.Status)).Inc()
	}
	p.observeStage("align", stage)
	logger.Info("intervals aligned",
		"intervals", len(intervals),
		"excluded", stats.Excluded,
		"rejected", stats.Rejected,
	)

	stage = time.Now()
	entries, err := csvfile.ReadBerthDictionary(p.cfg.BerthDictionary)
	if err != nil {
		return nil, err
	}
	dict, duplicates := domain.NewBerthDictionary(entries)
	for _, key := range duplicates {
		logger.Warn("duplicate berth dictionary zone ignored", "zone", key)
	}
	res.DictionaryEntries = dict.Len()
	res.DictionaryDuplicates = len(duplicates)

	enriched, hits := domain.EnrichIntervals(intervals, dict)
	res.DictionaryHits = hits
	p.metrics.DictionaryHits.Add(float64(hits))
	p.metrics.DictionaryMiss.Add(float64(len(enriched) - hits))
	p.observeStage("enrich", stage)
	logger.Info("intervals enriched", "dictionary_entries", dict.Len(), "hits", hits)

	stage = time.Now()
	path, err := p.writer.WriteIntervals(p.cfg.OutputDir, enriched)
	if err != nil {
		return nil, err
	}
	res.IntervalsPath = path
	p.observeStage("write", stage)

	return enriched, nil
}

// matchManifest runs the manifest match stage and writes the versioned result
// file. A timed-out or cancelled match still writes the processed prefix.
func (p *Pipeline) matchManifest(ctx context.Context, logger *slog.Logger, enriched []domain.EnrichedInterval, res *Result) error {
	stage := time.Now()
	mf, err := csvfile.ReadManifest(p.cfg.Manifest)
	if err != nil {
		return err
	}
	res.ManifestRows = len(mf.Rows)

	matcher := domain.NewMatcher(enriched, domain.MatcherOptions{
		ToleranceDays: p.cfg.DateToleranceDays,
		Budget:        p.cfg.BatchTimeout,
		CheckEvery:    p.cfg.TimeoutCheckRows,
	})
	p.metrics.LookupFiltered.Add(float64(matcher.LookupFiltered()))

	run := matcher.MatchAll(ctx, mf.Rows)
	res.Processed = run.Processed
	res.TimedOut = run.TimedOut
	res.Cancelled = run.Cancelled
	res.MatchStats = run.Stats

	p.metrics.ManifestRows.WithLabelValues("matched").Add(float64(run.Stats.Matched))
	p.metrics.ManifestRows.WithLabelValues("not_matched").Add(float64(run.Stats.NotMatched))
	p.metrics.ManifestRows.WithLabelValues("error").Add(float64(run.Stats.Errors))
	p.metrics.MatchPath.WithLabelValues("imo").Add(float64(run.Stats.IMOMatches))
	p.metrics.MatchPath.WithLabelValues("name").Add(float64(run.Stats.NameMatches))
	p.observeStage("match", stage)

	if run.TimedOut {
		logger.Warn("match stage hit the time budget", "processed", run.Processed, "total", len(mf.Rows))
	}
	if run.Cancelled {
		logger.Warn("match stage cancelled", "processed", run.Processed, "total", len(mf.Rows))
	}

	stage = time.Now()
	path, err := p.writer.WriteMatchedManifest(p.cfg.OutputDir, mf, run.Matches)
	if err != nil {
		return err
	}
	res.OutputPath = path
	p.observeStage("write", stage)

	return nil
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
