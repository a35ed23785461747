package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/parquet"
	"github.com/rehman-1/git-asana-backend/schema"
)

// commitsReserved is the width taken by the non-message columns of the commit table.
const commitsReserved = 110

// WriteCommitReport outputs a commit report, dispatching based on the output format configured.
func WriteCommitReport(records []schema.CommitRecord, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCommits(w, records)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteCommitsParquet(parquet.ConvertCommitRecords(records), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCommitTable(records, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeCSVResultsForCommits writes one row per commit.
func writeCSVResultsForCommits(w io.Writer, records []schema.CommitRecord) error {
	header := []string{"repo", "developer", "hash", "datetime", "message", "added", "deleted", "files", "link"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			row := []string{
				r.Repo,
				r.Developer,
				r.Hash,
				formatUnix(r.Timestamp),
				r.Message,
				strconv.Itoa(r.Added),
				strconv.Itoa(r.Deleted),
				strconv.Itoa(r.Files),
				r.Link,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCommitTable generates and writes the human-readable table.
func writeCommitTable(records []schema.CommitRecord, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Date", "Repo", "Hash", "Developer", "Message", "+", "-", "Files"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	green := colorFunc(cfg, contract.CountColor)
	red := colorFunc(cfg, contract.DeletedColor)
	maxMessage := GetMaxTextWidth(cfg, commitsReserved)

	var data [][]string
	totalAdded, totalDeleted := 0, 0
	for _, r := range records {
		totalAdded += r.Added
		totalDeleted += r.Deleted
		data = append(data, []string{
			formatUnix(r.Timestamp),
			r.Repo,
			shortHash(r.Hash),
			contract.TruncateText(r.Developer, 32),
			contract.TruncateText(r.Message, maxMessage),
			green(strconv.Itoa(r.Added)),
			red(strconv.Itoa(r.Deleted)),
			strconv.Itoa(r.Files),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d commits (+%d / -%d lines)\n", len(records), totalAdded, totalDeleted); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Report generated in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// shortHash abbreviates a commit hash for display.
func shortHash(hash string) string {
	if len(hash) > 10 {
		return hash[:10]
	}
	return hash
}
