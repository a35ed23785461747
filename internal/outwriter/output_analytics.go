package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
)

// WritePerformance outputs the merged task and commit analytics.
func WritePerformance(report schema.PerformanceReport, cfg *contract.Config) error {
	names := sortedKeys(report.DeveloperSummaries)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"developer", "in_progress", "done", "commit_count", "lines_added", "lines_deleted", "files_changed"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, name := range names {
					if err := cw.Write(performanceRow(name, report.DeveloperSummaries[name])); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("%w: analytics", ErrParquetUnsupported)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePerformanceTable(report, names, cfg, w)
		}, "Wrote table")
	}
}

func performanceRow(name string, p schema.DeveloperPerformance) []string {
	return []string{
		name,
		strconv.Itoa(len(p.InProgressTasks)),
		strconv.Itoa(len(p.DoneTasks)),
		strconv.Itoa(p.CommitCount),
		strconv.Itoa(p.LinesAdded),
		strconv.Itoa(p.LinesDeleted),
		strconv.Itoa(p.FilesChanged),
	}
}

func writePerformanceTable(report schema.PerformanceReport, names []string, cfg *contract.Config, w io.Writer) error {
	title := fmt.Sprintf("📈 Developer analytics %s → %s", report.StartDate, report.EndDate)
	if err := writeTitle(w, cfg, title); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Developer", "In Progress", "Done", "Commits", "+", "-", "Files"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, name := range names {
		data = append(data, performanceRow(name, report.DeveloperSummaries[name]))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
