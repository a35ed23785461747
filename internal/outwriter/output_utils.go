package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/rehman-1/git-asana-backend/internal/contract"
)

// ErrParquetUnsupported is returned for reports that have no Parquet layout.
var ErrParquetUnsupported = errors.New("parquet output is not supported for this report")

// timeLayout renders commit timestamps in tables and CSV.
const timeLayout = "2006-01-02 15:04:05"

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// formatUnix renders a unix timestamp in local time.
func formatUnix(ts int64) string {
	return time.Unix(ts, 0).Format(timeLayout)
}

// sortedKeys returns the map keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// colorFunc returns a sprint function for c, or plain fmt.Sprint when colors are off.
func colorFunc(cfg *contract.Config, c *color.Color) func(...any) string {
	if !cfg.UseColors {
		return fmt.Sprint
	}
	return c.SprintFunc()
}

// writeTitle prints a report heading above a table.
func writeTitle(w io.Writer, cfg *contract.Config, title string) error {
	_, err := fmt.Fprintln(w, colorFunc(cfg, contract.HeaderColor)(title))
	return err
}
