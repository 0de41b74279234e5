package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/typetest/internal/model"
)

// ResultSource is the read side of the result store.
type ResultSource interface {
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultAggregate, error)
	ListSamples(ctx context.Context, resultID string) ([]model.WPMSample, error)
	PersonalBests(ctx context.Context) ([]model.PersonalBest, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Results []model.ResultAggregate
	Bests   []model.PersonalBest
	// LatestSamples are the WPM samples of the newest result in Results.
	LatestSamples []model.WPMSample
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src ResultSource, cfg model.StatsConfig) (Report, error) {
	results, err := src.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list results: %w", err)
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}
	bests, err := src.PersonalBests(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load personal bests: %w", err)
	}
	report := Report{Results: results, Bests: bests}
	if len(results) > 0 {
		samples, err := src.ListSamples(ctx, results[len(results)-1].ID)
		if err != nil {
			return Report{}, fmt.Errorf("failed to load samples: %w", err)
		}
		report.LatestSamples = samples
	}
	return report, nil
}

// RenderReport writes the plain-text stats report.
func RenderReport(w io.Writer, report Report, window int, opts PlotOptions) error {
	if err := RenderSummary(w, report.Results); err != nil {
		return err
	}
	if len(report.Results) == 0 {
		return nil
	}
	if err := RenderBests(w, report.Bests); err != nil {
		return err
	}
	if err := RenderCurves(w, report.Results, window, opts); err != nil {
		return err
	}
	latest := opts
	latest.Title = "Latest Test"
	if err := RenderSamples(w, report.LatestSamples, latest); err != nil {
		return err
	}
	return RenderHistory(w, report.Results)
}
