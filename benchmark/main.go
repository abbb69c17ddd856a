// Package main provides a performance benchmarking tool for the scanreport CLI.
// It measures decode times for a set of report archives, running each command
// without a cache and then with the SQLite cache, treating the first cached run
// as cold and averaging the rest as warm, and writes the results as CSV.
//
// Prerequisites:
// - scanreport binary installed and available in PATH
// - One or more scanner report archives
//
// Usage: go run benchmark/main.go <archive> [archive...]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Archive     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Archives    []string
	Commands    []string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s <archive> [archive...]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Archives:    os.Args[1:],
		Commands:    []string{"report", "rules"},
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command("scanreport", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the scanreport binary and archives exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("scanreport"); err != nil {
		return fmt.Errorf("scanreport binary not found in PATH")
	}
	for _, archive := range config.Archives {
		if _, err := os.Stat(archive); err != nil {
			return fmt.Errorf("archive %s not readable: %w", archive, err)
		}
	}
	return nil
}

// runBenchmarks executes every command against every archive
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d archives, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Archives), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, archive := range config.Archives {
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, archive, command))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, archive, command string) BenchmarkResult {
	name := filepath.Base(archive)
	fmt.Printf("Running %s on %s\n", command, name)

	noCache := runBenchmark(config, archive, command, "none", config.NoCacheRuns)
	noCacheAvg := average(noCache)

	cached := runBenchmark(config, archive, command, "sqlite", config.CacheRuns)
	coldTimeStr, warmAvg := "TIMEOUT", "TIMEOUT"
	if len(cached) > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cached[0])
		warmAvg = average(cached[1:])
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Archive:     name,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// average formats the mean of the given run times.
func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// runBenchmark executes a scanreport command multiple times and returns the successful run times
func runBenchmark(config BenchmarkConfig, archive, command, cacheBackend string, numRuns int) []float64 {
	args := []string{command, archive, "--cache-backend", cacheBackend, "--output", "csv", "--output-file", os.DevNull}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "scanreport", args...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
		}
	}
	return times
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("scanreport_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"archive", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Archive, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-24s: No-cache: %s, Cold: %s, Warm: %s\n", result.Archive, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
