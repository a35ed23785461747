// Package core exposes the reporting operations shared by the CLI, the HTTP
// server and the MCP server.
package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rehman-1/git-asana-backend/core/agg"
	"github.com/rehman-1/git-asana-backend/core/correlate"
	"github.com/rehman-1/git-asana-backend/core/summary"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/sirupsen/logrus"
)

// ErrWorkItemSource marks failures of the external work-item source.
var ErrWorkItemSource = errors.New("work item source failed")

// RepoPuller updates the local repository clones.
type RepoPuller interface {
	Pull(ctx context.Context) map[string]string
}

// Deps are the collaborators of an Engine. Caches, Source, Summarizer and
// Repos may be nil.
type Deps struct {
	Git        contract.GitClient
	Resolver   contract.DeveloperResolver
	Caches     contract.CacheManager
	Source     contract.WorkItemSource
	Summarizer contract.Summarizer
	Repos      RepoPuller
}

// Engine runs the report operations for one configuration.
type Engine struct {
	cfg        *contract.Config
	deps       Deps
	aggregator *agg.Aggregator
	correlator *correlate.Correlator
	log        logrus.FieldLogger
}

// NewEngine returns an Engine over a private copy of cfg.
func NewEngine(cfg *contract.Config, deps Deps) *Engine {
	return &Engine{
		cfg:        cfg.Clone(),
		deps:       deps,
		aggregator: agg.NewAggregator(deps.Git, deps.Resolver, deps.Caches),
		correlator: correlate.NewCorrelator(deps.Summarizer, cfg.SummarizerTimeout),
		log:        contract.ComponentLogger("engine"),
	}
}

// GenerateCommitReport returns the commits of every configured repository in
// the window, newest first.
func (e *Engine) GenerateCommitReport(ctx context.Context, startDate, endDate string, useCache bool) ([]schema.CommitRecord, error) {
	window, err := contract.ParseDateWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return e.aggregator.GenerateCommitReport(ctx, e.cfg, window, useCache)
}

// CorrelateTasks returns one effort record per work item with matching
// commits. Work items come from the cache when present and the commit report
// is read through the report cache.
func (e *Engine) CorrelateTasks(ctx context.Context, startDate, endDate string) ([]schema.TaskEffortRecord, error) {
	window, err := contract.ParseDateWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}
	items, err := e.FetchWorkItems(ctx, false)
	if err != nil {
		return nil, err
	}
	commits, err := e.aggregator.GenerateCommitReport(ctx, e.cfg, window, true)
	if err != nil {
		return nil, err
	}
	return e.correlator.Correlate(ctx, items, commits), nil
}

// SummarizeByDeveloper groups the correlated effort records by assignee.
func (e *Engine) SummarizeByDeveloper(ctx context.Context, startDate, endDate string) (map[string]schema.DeveloperSummary, error) {
	records, err := e.CorrelateTasks(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return summary.ByDeveloper(records), nil
}

// TaskSummary counts the work items by board state.
func (e *Engine) TaskSummary(ctx context.Context) (schema.TaskSummary, error) {
	items, err := e.FetchWorkItems(ctx, false)
	if err != nil {
		return schema.TaskSummary{}, err
	}
	return summary.Tasks(items), nil
}

// DeveloperPerformance merges task states with live commit statistics.
func (e *Engine) DeveloperPerformance(ctx context.Context, startDate, endDate string) (schema.PerformanceReport, error) {
	window, err := contract.ParseDateWindow(startDate, endDate)
	if err != nil {
		return schema.PerformanceReport{}, err
	}
	tasks, err := e.TaskSummary(ctx)
	if err != nil {
		return schema.PerformanceReport{}, err
	}
	commits, err := e.aggregator.GenerateCommitReport(ctx, e.cfg, window, false)
	if err != nil {
		return schema.PerformanceReport{}, err
	}
	return summary.Performance(tasks, commits, window.StartDate(), window.EndDate()), nil
}

// FetchWorkItems returns the cached work-item snapshot unless force is set or
// there is none, in which case the source is queried and the cache refreshed.
func (e *Engine) FetchWorkItems(ctx context.Context, force bool) ([]schema.WorkItem, error) {
	cache := e.workItemCache()
	if !force && cache != nil {
		if items, ok := cache.Get(); ok {
			return items, nil
		}
	}
	if e.deps.Source == nil {
		return nil, fmt.Errorf("%w: no work item source configured", ErrWorkItemSource)
	}

	items, err := e.deps.Source.ListWorkItems(ctx, e.cfg.AsanaProjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkItemSource, err)
	}
	if cache != nil {
		if err := cache.Put(items); err != nil {
			e.log.WithError(err).Warn("failed to write work item cache")
		}
	}
	e.log.WithField("tasks", len(items)).Info("work items fetched")
	return items, nil
}

// ReloadWorkItems force-refreshes the work-item snapshot.
func (e *Engine) ReloadWorkItems(ctx context.Context) (int, error) {
	items, err := e.FetchWorkItems(ctx, true)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// ReloadRepos pulls every configured repository.
func (e *Engine) ReloadRepos(ctx context.Context) map[string]string {
	if e.deps.Repos == nil {
		return map[string]string{}
	}
	return e.deps.Repos.Pull(ctx)
}

// ReloadAll clears the report cache directory, refreshes the work items and
// pulls the repositories.
func (e *Engine) ReloadAll(ctx context.Context) (schema.ReloadResult, error) {
	result := schema.ReloadResult{CacheCleared: []string{}}
	if reports := e.reportCache(); reports != nil {
		result.CacheDirectory = reports.Dir()
		cleared, err := reports.Clear()
		if err != nil {
			e.log.WithError(err).Warn("cache clear incomplete")
		}
		if cleared != nil {
			result.CacheCleared = cleared
		}
	}

	n, err := e.ReloadWorkItems(ctx)
	if err != nil {
		return result, err
	}
	result.TasksReloaded = n
	result.GitResult = e.ReloadRepos(ctx)
	return result, nil
}

func (e *Engine) workItemCache() contract.WorkItemCache {
	if e.deps.Caches == nil {
		return nil
	}
	return e.deps.Caches.GetWorkItemCache()
}

func (e *Engine) reportCache() contract.ReportCache {
	if e.deps.Caches == nil {
		return nil
	}
	return e.deps.Caches.GetReportCache()
}
