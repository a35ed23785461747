package iocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/sirupsen/logrus"
)

// File name conventions inside the cache directory.
const (
	reportFilePrefix  = "git_report_"
	reportFileSuffix  = ".json"
	workItemsFileName = "asana_tasks.json"
	tempFilePrefix    = ".tmp-"
)

// FileCache stores commit reports and the work-item snapshot as JSON files
// in one directory. Writes go through a temp file and a rename, so readers
// never see a partially written entry.
type FileCache struct {
	dir string
	log logrus.FieldLogger
}

var _ contract.ReportCache = &FileCache{} // Compile-time check

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		dir = contract.DefaultCacheDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &FileCache{dir: dir, log: contract.ComponentLogger("cache")}, nil
}

// Dir returns the cache directory.
func (fc *FileCache) Dir() string {
	return fc.dir
}

// ReportFileName returns the entry file name for a repository set and window.
func ReportFileName(repoSetKey, startDate, endDate string) string {
	return fmt.Sprintf("%s%s_%s_%s%s", reportFilePrefix, startDate, endDate, repoSetKey, reportFileSuffix)
}

// Get implements contract.ReportCache.
func (fc *FileCache) Get(repoSetKey, startDate, endDate string) ([]schema.CommitRecord, bool) {
	path := filepath.Join(fc.dir, ReportFileName(repoSetKey, startDate, endDate))
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false
	}
	if err != nil {
		fc.log.WithError(err).WithField("file", path).Warn("failed to read report cache entry")
		return nil, false
	}

	records, err := decodeReport(data)
	if err != nil {
		fc.discard(path, err)
		return nil, false
	}
	return records, true
}

// decodeReport accepts only a non-empty list of well formed commit records.
func decodeReport(data []byte) ([]schema.CommitRecord, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("empty cache file")
	}
	var records []schema.CommitRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("cache entry holds no commits")
	}
	for i, r := range records {
		if !r.Valid() {
			return nil, fmt.Errorf("record %d is malformed", i)
		}
	}
	return records, nil
}

// Put implements contract.ReportCache.
func (fc *FileCache) Put(repoSetKey, startDate, endDate string, records []schema.CommitRecord) error {
	if records == nil {
		records = []schema.CommitRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode commit report: %w", err)
	}
	return fc.writeAtomic(ReportFileName(repoSetKey, startDate, endDate), data)
}

// GetWorkItems returns the cached work-item snapshot.
func (fc *FileCache) GetWorkItems() ([]schema.WorkItem, bool) {
	path := filepath.Join(fc.dir, workItemsFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false
	}
	if err != nil {
		fc.log.WithError(err).WithField("file", path).Warn("failed to read work-item cache")
		return nil, false
	}
	var items []schema.WorkItem
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		if err == nil {
			err = errors.New("work-item cache is not a list")
		}
		fc.discard(path, err)
		return nil, false
	}
	return items, true
}

// PutWorkItems overwrites the work-item snapshot.
func (fc *FileCache) PutWorkItems(items []schema.WorkItem) error {
	if items == nil {
		items = []schema.WorkItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode work items: %w", err)
	}
	return fc.writeAtomic(workItemsFileName, data)
}

// Clear implements contract.ReportCache. It removes every regular file in the
// cache directory and returns the removed names. Temp files of writes still in
// flight are left alone.
func (fc *FileCache) Clear() ([]string, error) {
	entries, err := os.ReadDir(fc.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list cache directory %s: %w", fc.dir, err)
	}

	removed := []string{}
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), tempFilePrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(fc.dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, e.Name())
	}
	return removed, errors.Join(errs...)
}

// Status implements contract.ReportCache.
func (fc *FileCache) Status() (schema.ReportCacheStatus, error) {
	status := schema.ReportCacheStatus{Directory: fc.dir}
	entries, err := os.ReadDir(fc.dir)
	if errors.Is(err, os.ErrNotExist) {
		return status, nil
	}
	if err != nil {
		return status, fmt.Errorf("failed to list cache directory %s: %w", fc.dir, err)
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := e.Name()
		switch {
		case name == workItemsFileName:
			status.HasWorkItems = true
		case strings.HasPrefix(name, reportFilePrefix) && strings.HasSuffix(name, reportFileSuffix):
			status.ReportFiles++
		default:
			continue
		}
		status.TotalBytes += info.Size()
		mod := info.ModTime()
		if status.NewestEntry.IsZero() || mod.After(status.NewestEntry) {
			status.NewestEntry = mod
		}
		if status.OldestEntry.IsZero() || mod.Before(status.OldestEntry) {
			status.OldestEntry = mod
		}
	}
	return status, nil
}

// writeAtomic writes data to name through a temp file in the same directory.
func (fc *FileCache) writeAtomic(name string, data []byte) error {
	if err := os.MkdirAll(fc.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", fc.dir, err)
	}
	tmp, err := os.CreateTemp(fc.dir, tempFilePrefix+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(fc.dir, name)); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}

// discard deletes an unreadable entry so the next call recomputes it.
func (fc *FileCache) discard(path string, cause error) {
	fc.log.WithError(cause).WithField("file", path).Warn("discarding corrupt cache entry")
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fc.log.WithError(err).WithField("file", path).Warn("failed to delete corrupt cache entry")
	}
}

// WorkItemView adapts FileCache to contract.WorkItemCache.
type WorkItemView struct{ fc *FileCache }

var _ contract.WorkItemCache = WorkItemView{} // Compile-time check

// Get implements contract.WorkItemCache.
func (v WorkItemView) Get() ([]schema.WorkItem, bool) { return v.fc.GetWorkItems() }

// Put implements contract.WorkItemCache.
func (v WorkItemView) Put(items []schema.WorkItem) error { return v.fc.PutWorkItems(items) }

// WorkItems returns the work-item cache view over the same directory.
func (fc *FileCache) WorkItems() WorkItemView {
	return WorkItemView{fc: fc}
}
