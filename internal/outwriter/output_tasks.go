package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/parquet"
	"github.com/rehman-1/git-asana-backend/schema"
)

// effortsReserved is the width taken by the non-name columns of the effort table.
const effortsReserved = 90

// WriteTaskEfforts outputs per-task effort estimates, dispatching based on the output format configured.
func WriteTaskEfforts(records []schema.TaskEffortRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForEfforts(w, records)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteTaskEffortsParquet(parquet.ConvertTaskEffortRecords(records), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEffortTable(records, cfg, w)
		}, "Wrote table")
	}
}

func writeCSVResultsForEfforts(w io.Writer, records []schema.TaskEffortRecord) error {
	header := []string{
		"task_id", "task_name", "assignee", "section", "time_spent_minutes",
		"commit_count", "first_commit", "last_commit", "lines_added", "lines_deleted", "analysis", "url",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			row := []string{
				r.TaskID,
				r.TaskName,
				r.Assignee,
				r.Section,
				strconv.FormatInt(r.TimeSpentMinutes, 10),
				strconv.Itoa(r.CommitCount),
				formatUnix(r.FirstCommit),
				formatUnix(r.LastCommit),
				strconv.Itoa(r.LinesAdded),
				strconv.Itoa(r.LinesDeleted),
				r.Analysis,
				r.URL,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeEffortTable(records []schema.TaskEffortRecord, cfg *contract.Config, writer io.Writer) error {
	if err := writeTitle(writer, cfg, "⏱  Task effort"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Task", "Assignee", "Section", "Minutes", "Commits", "+", "-"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxName := GetMaxTextWidth(cfg, effortsReserved)
	var data [][]string
	var totalMinutes int64
	for _, r := range records {
		totalMinutes += r.TimeSpentMinutes
		data = append(data, []string{
			contract.TruncateText(r.TaskName, maxName),
			r.Assignee,
			r.Section,
			strconv.FormatInt(r.TimeSpentMinutes, 10),
			strconv.Itoa(r.CommitCount),
			strconv.Itoa(r.LinesAdded),
			strconv.Itoa(r.LinesDeleted),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Matched %d tasks, %d minutes in total\n", len(records), totalMinutes); err != nil {
		return err
	}

	// Summaries are long-form text, so they follow the table instead of living in a column.
	muted := colorFunc(cfg, contract.MutedColor)
	for _, r := range records {
		if r.Analysis == "" {
			continue
		}
		if _, err := fmt.Fprintf(writer, "\n%s\n%s\n", muted(r.TaskName), r.Analysis); err != nil {
			return err
		}
	}
	return nil
}

// WriteDeveloperSummary outputs effort grouped by assignee, dispatching based on the output format configured.
func WriteDeveloperSummary(summaries map[string]schema.DeveloperSummary, cfg *contract.Config) error {
	names := sortedKeys(summaries)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"assignee", "task_count", "total_minutes"}, func(cw *csv.Writer) error {
				for _, name := range names {
					s := summaries[name]
					if err := cw.Write([]string{name, strconv.Itoa(len(s.Tasks)), strconv.FormatInt(s.TotalMinutes, 10)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteDeveloperSummariesParquet(parquet.ConvertDeveloperSummaries(names, summaries), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeTitle(w, cfg, "👥 Effort by developer"); err != nil {
				return err
			}
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Assignee", "Tasks", "Minutes"})
			var data [][]string
			for _, name := range names {
				s := summaries[name]
				data = append(data, []string{name, strconv.Itoa(len(s.Tasks)), strconv.FormatInt(s.TotalMinutes, 10)})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}

// WriteTaskSummary outputs board-state counts per assignee, dispatching based on the output format configured.
func WriteTaskSummary(summary schema.TaskSummary, cfg *contract.Config) error {
	names := sortedKeys(summary.Developers)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"assignee", "state", "task_id", "task_name", "section", "url"}, func(cw *csv.Writer) error {
				for _, name := range names {
					tasks := summary.Developers[name]
					if err := writeTaskRows(cw, name, schema.InProgressState, tasks.InProgress); err != nil {
						return err
					}
					if err := writeTaskRows(cw, name, schema.DoneState, tasks.Done); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("%w: task summary", ErrParquetUnsupported)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTaskSummaryTable(summary, names, cfg, w)
		}, "Wrote table")
	}
}

func writeTaskRows(cw *csv.Writer, assignee string, state schema.TaskState, items []schema.WorkItem) error {
	for _, item := range items {
		if err := cw.Write([]string{assignee, string(state), item.ID, item.Name, item.Section, item.URL}); err != nil {
			return err
		}
	}
	return nil
}

func writeTaskSummaryTable(summary schema.TaskSummary, names []string, cfg *contract.Config, w io.Writer) error {
	if err := writeTitle(w, cfg, "📋 Task summary"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Assignee", "In Progress", "Done"})
	var data [][]string
	for _, name := range names {
		tasks := summary.Developers[name]
		data = append(data, []string{name, strconv.Itoa(len(tasks.InProgress)), strconv.Itoa(len(tasks.Done))})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	green := colorFunc(cfg, contract.CountColor)
	_, err := fmt.Fprintf(w, "In progress: %s, Done: %s\n",
		green(strconv.Itoa(summary.TotalInProgress)), green(strconv.Itoa(summary.TotalDone)))
	return err
}
