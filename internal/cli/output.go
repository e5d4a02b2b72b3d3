package cli

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"covtrend/internal/services/api/charts/domain"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderRepository(w io.Writer, format string, c domain.RepositoryChart) error {
	if format == FormatJSON {
		return writeJSON(w, c)
	}
	rows := make([][]string, 0, len(c.Coverage))
	for _, p := range c.Coverage {
		rows = append(rows, []string{
			p.Date.Format(time.DateOnly),
			p.Repository,
			p.Branch,
			shortSHA(p.CommitID),
			strconv.FormatInt(p.TotalLines, 10),
			strconv.FormatInt(p.TotalHits, 10),
			pct(p.Coverage),
			signed(p.CoverageChange),
			carried(p.CarriedForward),
		})
	}
	return renderTable(w, []string{"Date", "Repository", "Branch", "Commit", "Lines", "Hits", "Coverage", "Change", "Carried"}, rows)
}

func renderOrganization(w io.Writer, format string, c domain.OrganizationChart) error {
	if format == FormatJSON {
		return writeJSON(w, c)
	}
	rows := make([][]string, 0, len(c.Coverage))
	for _, p := range c.Coverage {
		rows = append(rows, []string{
			p.Date.Format(time.DateOnly),
			strconv.Itoa(p.RepositoryCount),
			strconv.FormatInt(p.TotalLines, 10),
			strconv.FormatInt(p.TotalHits, 10),
			pct(p.WeightedCoverage),
			signed(p.CoverageChange),
		})
	}
	return renderTable(w, []string{"Date", "Repos", "Lines", "Hits", "Coverage", "Change"}, rows)
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func shortSHA(s string) string {
	if len(s) > 7 {
		return s[:7]
	}
	return s
}

func pct(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) + "%" }

func signed(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	if f > 0 {
		return "+" + s
	}
	return s
}

func carried(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
