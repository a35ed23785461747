package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
)

// WriteRepoStatus outputs a per-repository status map such as the result of a pull or setup.
func WriteRepoStatus(title string, statuses map[string]string, cfg *contract.Config) error {
	names := sortedKeys(statuses)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, statuses)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"repo", "status"}, func(cw *csv.Writer) error {
				for _, name := range names {
					if err := cw.Write([]string{name, statuses[name]}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("%w: repository status", ErrParquetUnsupported)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusTable(w, cfg, title, names, statuses)
		}, "Wrote table")
	}
}

func writeStatusTable(w io.Writer, cfg *contract.Config, title string, names []string, statuses map[string]string) error {
	if err := writeTitle(w, cfg, title); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repo", "Status"})
	var data [][]string
	for _, name := range names {
		data = append(data, []string{name, contract.TruncateText(statuses[name], 100)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteReloadResult outputs the outcome of a full reload.
func WriteReloadResult(result schema.ReloadResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut, schema.ParquetOut:
		return fmt.Errorf("reload results support text and json output only (received %s)", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			green := colorFunc(cfg, contract.CountColor)
			if _, err := fmt.Fprintf(w, "Cleared %s files from %s\n", green(strconv.Itoa(len(result.CacheCleared))), result.CacheDirectory); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Reloaded %s tasks\n", green(strconv.Itoa(result.TasksReloaded))); err != nil {
				return err
			}
			return writeStatusTable(w, cfg, "🔄 Repositories", sortedKeys(result.GitResult), result.GitResult)
		}, "Wrote table")
	}
}
