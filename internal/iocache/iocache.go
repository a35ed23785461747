// Package iocache is for caching I/O calls: git numstat results, commit reports
// and the work-item snapshot.
package iocache

import (
	"sync"

	"github.com/rehman-1/git-asana-backend/internal/contract"
)

// CacheStoreManager manages the process-wide cache stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	stats        contract.CacheStore
	reports      contract.ReportCache
	workItems    contract.WorkItemCache
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetStatsStore returns the per-commit stats CacheStore.
func (mgr *CacheStoreManager) GetStatsStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.stats
}

// GetReportCache returns the file-backed commit report cache.
func (mgr *CacheStoreManager) GetReportCache() contract.ReportCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.reports
}

// GetWorkItemCache returns the work-item snapshot cache.
func (mgr *CacheStoreManager) GetWorkItemCache() contract.WorkItemCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.workItems
}

// NewCacheStoreManager returns a manager over the given stores. Any of them may be nil.
func NewCacheStoreManager(stats contract.CacheStore, reports contract.ReportCache, workItems contract.WorkItemCache) *CacheStoreManager {
	return &CacheStoreManager{stats: stats, reports: reports, workItems: workItems}
}
