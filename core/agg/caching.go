package agg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
)

// currentCacheVersion defines the version of the stats cache schema
const currentCacheVersion = 1

// statsKey identifies a commit inside the stats store.
func statsKey(repoName, hash string) string {
	return fmt.Sprintf("%s:%s", repoName, hash)
}

// cachedCommitStats returns the numstat totals of one commit, served from the
// stats store when present. Commit content never changes, so entries have no expiry.
func cachedCommitStats(ctx context.Context, client contract.GitClient, store contract.CacheStore, repo contract.RepoConfig, hash string) (schema.CommitStats, error) {
	if store == nil {
		return computeCommitStats(ctx, client, repo.Path, hash)
	}

	key := statsKey(repo.Name, hash)
	if stats, ok := checkCacheHit(store, key); ok {
		return stats, nil
	}
	return computeAndStore(ctx, client, store, repo.Path, hash, key)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) (schema.CommitStats, bool) {
	data, version, _, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return schema.CommitStats{}, false // Cache miss
	}
	var stats schema.CommitStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return schema.CommitStats{}, false
	}
	if stats.Added < 0 || stats.Deleted < 0 || stats.Files < 0 {
		return schema.CommitStats{}, false
	}
	return stats, true
}

// computeAndStore computes the result and stores it in cache
func computeAndStore(ctx context.Context, client contract.GitClient, store contract.CacheStore, repoPath, hash, key string) (schema.CommitStats, error) {
	stats, err := computeCommitStats(ctx, client, repoPath, hash)
	if err != nil {
		return stats, err
	}
	if data, err := json.Marshal(stats); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.ComponentLogger("agg").WithError(err).WithField("key", key).Debug("failed to store commit stats")
		}
	}
	return stats, nil
}

func computeCommitStats(ctx context.Context, client contract.GitClient, repoPath, hash string) (schema.CommitStats, error) {
	out, err := client.GetCommitNumstat(ctx, repoPath, hash)
	if err != nil {
		return schema.CommitStats{}, err
	}
	return parseNumstat(out), nil
}
