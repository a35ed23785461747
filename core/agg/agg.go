package agg

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Aggregator extracts commit records from the configured repositories.
type Aggregator struct {
	client   contract.GitClient
	resolver contract.DeveloperResolver
	mgr      contract.CacheManager
	log      logrus.FieldLogger
}

// NewAggregator wires the git client, developer resolver and caches.
// mgr may be nil, which disables every cache.
func NewAggregator(client contract.GitClient, resolver contract.DeveloperResolver, mgr contract.CacheManager) *Aggregator {
	return &Aggregator{
		client:   client,
		resolver: resolver,
		mgr:      mgr,
		log:      contract.ComponentLogger("agg"),
	}
}

func (a *Aggregator) statsStore() contract.CacheStore {
	if a.mgr == nil {
		return nil
	}
	return a.mgr.GetStatsStore()
}

func (a *Aggregator) reportCache() contract.ReportCache {
	if a.mgr == nil {
		return nil
	}
	return a.mgr.GetReportCache()
}

// ExtractRepo returns every commit of one repository inside the window.
// A missing or non-directory path yields no commits and no error.
func (a *Aggregator) ExtractRepo(ctx context.Context, repo contract.RepoConfig, window contract.DateWindow) ([]schema.CommitRecord, error) {
	log := a.log.WithField("repo", repo.Name)
	if !contract.IsDir(repo.Path) {
		log.WithField("path", repo.Path).Warn("repository path does not exist, skipping")
		return nil, nil
	}

	out, err := a.client.GetCommitLog(ctx, repo.Path, window)
	if err != nil {
		return nil, fmt.Errorf("repository %s: %w", repo.Name, err)
	}

	entries := parseCommitLog(out)
	store := a.statsStore()
	records := make([]schema.CommitRecord, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stats, err := cachedCommitStats(ctx, a.client, store, repo, e.hash)
		if err != nil {
			return nil, fmt.Errorf("repository %s: commit %s: %w", repo.Name, e.hash, err)
		}
		records = append(records, schema.CommitRecord{
			Repo:      repo.Name,
			Developer: a.resolver.Resolve(authorID(e.email)),
			Hash:      e.hash,
			Timestamp: e.timestamp,
			Message:   e.subject,
			Added:     stats.Added,
			Deleted:   stats.Deleted,
			Files:     stats.Files,
			Link:      commitLink(repo.URL, e.hash),
		})
	}
	log.WithField("commits", len(records)).Debug("repository extracted")
	return records, nil
}

// GenerateCommitReport aggregates commits of all configured repositories,
// newest first. With useCache a stored report for the same repository set
// and window is returned as is. A live result is always written back unless
// it is empty.
func (a *Aggregator) GenerateCommitReport(ctx context.Context, cfg *contract.Config, window contract.DateWindow, useCache bool) ([]schema.CommitRecord, error) {
	cache := a.reportCache()
	key := cfg.RepoSetKey()
	start, end := window.StartDate(), window.EndDate()

	if useCache && cache != nil {
		if records, ok := cache.Get(key, start, end); ok {
			a.log.WithFields(logrus.Fields{"start": start, "end": end, "commits": len(records)}).Info("commit report served from cache")
			return records, nil
		}
	}

	records, err := a.aggregate(ctx, cfg.Repos, cfg.Workers, window)
	if err != nil {
		return nil, err
	}

	if cache != nil && len(records) > 0 {
		if err := cache.Put(key, start, end, records); err != nil {
			a.log.WithError(err).Warn("failed to write commit report cache")
		}
	}
	return records, nil
}

// aggregate runs ExtractRepo for every repository with at most workers in
// flight. Results keep configuration order before the stable timestamp sort.
func (a *Aggregator) aggregate(ctx context.Context, repos []contract.RepoConfig, workers int, window contract.DateWindow) ([]schema.CommitRecord, error) {
	results := make([][]schema.CommitRecord, len(repos))
	errs := make([]error, len(repos))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, repo := range repos {
		g.Go(func() error {
			records, err := a.ExtractRepo(ctx, repo, window)
			if err != nil {
				a.log.WithError(err).WithField("repo", repo.Name).Error("repository extraction failed")
				errs[i] = err
				return nil
			}
			results[i] = records
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if len(repos) > 0 && failed == len(repos) {
		return nil, fmt.Errorf("all repositories failed: %w", errors.Join(errs...))
	}

	all := []schema.CommitRecord{}
	for _, records := range results {
		all = append(all, records...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp > all[j].Timestamp
	})
	return all, nil
}
