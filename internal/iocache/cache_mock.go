package iocache

import (
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetStatsStore implements the CacheManager interface.
func (m *MockCacheManager) GetStatsStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetReportCache implements the CacheManager interface.
func (m *MockCacheManager) GetReportCache() contract.ReportCache {
	ret := m.Called()
	cache, _ := ret.Get(0).(contract.ReportCache)
	return cache
}

// GetWorkItemCache implements the CacheManager interface.
func (m *MockCacheManager) GetWorkItemCache() contract.WorkItemCache {
	ret := m.Called()
	cache, _ := ret.Get(0).(contract.WorkItemCache)
	return cache
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	ts, _ := args.Get(2).(int64)
	return value, args.Int(1), ts, args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockReportCache is a mock implementation of ReportCache for testing.
type MockReportCache struct {
	mock.Mock
}

var _ contract.ReportCache = &MockReportCache{} // Compile-time check

// Get implements the ReportCache interface.
func (m *MockReportCache) Get(repoSetKey, startDate, endDate string) ([]schema.CommitRecord, bool) {
	args := m.Called(repoSetKey, startDate, endDate)
	records, _ := args.Get(0).([]schema.CommitRecord)
	return records, args.Bool(1)
}

// Put implements the ReportCache interface.
func (m *MockReportCache) Put(repoSetKey, startDate, endDate string, records []schema.CommitRecord) error {
	return m.Called(repoSetKey, startDate, endDate, records).Error(0)
}

// Clear implements the ReportCache interface.
func (m *MockReportCache) Clear() ([]string, error) {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

// Status implements the ReportCache interface.
func (m *MockReportCache) Status() (schema.ReportCacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ReportCacheStatus), args.Error(1)
}

// Dir implements the ReportCache interface.
func (m *MockReportCache) Dir() string {
	return m.Called().String(0)
}

// MockWorkItemCache is a mock implementation of WorkItemCache for testing.
type MockWorkItemCache struct {
	mock.Mock
}

var _ contract.WorkItemCache = &MockWorkItemCache{} // Compile-time check

// Get implements the WorkItemCache interface.
func (m *MockWorkItemCache) Get() ([]schema.WorkItem, bool) {
	args := m.Called()
	items, _ := args.Get(0).([]schema.WorkItem)
	return items, args.Bool(1)
}

// Put implements the WorkItemCache interface.
func (m *MockWorkItemCache) Put(items []schema.WorkItem) error {
	return m.Called(items).Error(0)
}
