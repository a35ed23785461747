// Package main provides a performance benchmarking tool for the gitasana CLI.
// It measures commit report times across repositories of different sizes,
// once without the commit stats store and once with it, treating the first
// successful cached run as cold and averaging the rest as warm. Results are
// written as CSV for analysis and documentation.
//
// Prerequisites:
// - gitasana binary installed and available in PATH
// - Test repositories cloned to the specified base directory
//
// Usage: go run benchmark/main.go [repo-base-dir] [start-date] [end-date]
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Repository  string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	StartDate   string
	EndDate     string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
}

func main() {
	if len(os.Args) != 4 {
		fmt.Printf("Usage: %s [repo-base-dir] [start-date] [end-date]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		StartDate:   os.Args[2],
		EndDate:     os.Args[3],
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"csv-parser", "fd", "git", "kubernetes"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("gitasana", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}

// checkPrerequisites verifies that the gitasana binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("gitasana"); err != nil {
		return fmt.Errorf("gitasana binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// runBenchmarks executes the report benchmark for each configured repository
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)

		_, noCacheAvg := runPhase(config, repo, repoPath, "none", config.NoCacheRuns)
		coldTime, warmAvg := runPhase(config, repo, repoPath, "sqlite", config.CacheRuns)

		coldTimeStr := "TIMEOUT"
		if coldTime > 0 {
			coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
		}
		fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

		results = append(results, BenchmarkResult{
			Repository:  repo,
			NoCacheTime: noCacheAvg,
			ColdTime:    coldTimeStr,
			WarmTime:    warmAvg,
		})
	}
	return results
}

// runPhase runs the report numRuns times with a stats backend and returns the
// first time plus the average of all runs after it.
func runPhase(config BenchmarkConfig, repo, repoPath, cacheBackend string, numRuns int) (coldTime float64, avgTime string) {
	fmt.Printf("  %s backend (%d runs)\n", cacheBackend, numRuns)
	args := []string{
		"report",
		"--repo", repo + "=" + repoPath,
		"--start", config.StartDate,
		"--end", config.EndDate,
		"--workers", fmt.Sprint(config.Workers),
		"--cache-backend", cacheBackend,
		"--summarizer", "none",
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		cmd := exec.Command("gitasana", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error
		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) == 0 {
		return 0, "TIMEOUT"
	}
	coldTime = times[0]
	warm := times
	if len(times) > 1 {
		warm = times[1:]
	}
	var sum float64
	for _, t := range warm {
		sum += t
	}
	return coldTime, fmt.Sprintf("%.3fs", sum/float64(len(warm)))
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Report generated in") && strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/gitasana_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}
