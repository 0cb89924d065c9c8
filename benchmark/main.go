// Package main measures how long whodunit takes to report on depot files
// with and without the owner cache.
// Each file is reported several times with no cache backend, then several
// times against a fresh SQLite cache. The first cached run is the cold time
// and the rest are averaged as the warm time. Results are written as CSV.
//
// Prerequisites:
// - whodunit binary installed and available in PATH
// - p4 configured (P4PORT, P4USER, P4CLIENT) for a server holding the files
//
// Usage: go run benchmark/main.go depot-file...
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	File        string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Files       []string
	Commands    []string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	CacheDir    string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s depot-file...\n", os.Args[0])
		os.Exit(1)
	}

	cacheDir, err := os.MkdirTemp("", "whodunit-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create cache dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(cacheDir) }()

	config := BenchmarkConfig{
		Files:       os.Args[1:],
		Commands:    []string{"report", "summary"},
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		CacheDir:    cacheDir,
	}

	if _, err := exec.LookPath("whodunit"); err != nil {
		fmt.Printf("Prerequisites check failed: whodunit binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks executes every command against every configured file.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d files, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Files), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for i, file := range config.Files {
		for _, command := range config.Commands {
			dbFile := filepath.Join(config.CacheDir, fmt.Sprintf("owners-%d-%s.db", i, command))
			results = append(results, runBenchmarkSuite(config, file, command, dbFile))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, file, command, dbFile string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, file)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, file, command, cacheBackend, dbFile, numRuns)
		if len(times) == 0 {
			return cold, "n/a"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs against a fresh database file
	_ = os.Remove(dbFile)
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "FAILED"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		File:        file,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes whodunit numRuns times and returns the cold time and warm times.
// Failed or timed out runs are not counted.
func runBenchmark(config BenchmarkConfig, file, command, cacheBackend, dbFile string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{"--cache-backend", cacheBackend, "--cache-db-connect", dbFile, "--output-file", os.DevNull}
	if command == "summary" {
		args = append(args, "summary")
	}
	args = append(args, file)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		elapsed, err := timeRun(config.Timeout, args)
		if err != nil {
			fmt.Printf("    run %d failed: %v\n", run, err)
			continue
		}
		times = append(times, elapsed.Seconds())
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// timeRun runs whodunit once and reports how long it took.
func timeRun(timeout time.Duration, args []string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	output, err := exec.CommandContext(ctx, "whodunit", args...).CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 0, fmt.Errorf("timed out after %v", timeout)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", err, output)
	}
	return time.Since(start), nil
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("whodunit_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"file", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.File, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-40s: No-cache: %s, Cold: %s, Warm: %s\n", result.File, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
