package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ajitpratap0/reclaim/internal/workload"
	jsonpool "github.com/ajitpratap0/reclaim/pkg/json"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return poolerrors.New(poolerrors.ErrorTypeValidation, "unknown report format").
			WithDetail("format", format)
	}
}

func renderReport(w io.Writer, format string, report *workload.Report) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == formatJSON {
		return jsonpool.WriteIndent(w, report, "  ")
	}
	return renderTable(w, report)
}

func renderTable(w io.Writer, report *workload.Report) error {
	table := tablewriter.NewTable(w)
	table.Header([]string{
		"Pool", "Kind", "Shared", "Workers", "Cycles", "Panics",
		"Cycles/s", "P50", "P99", "Hit rate", "Created", "Spares", "Poisoned",
	})

	rows := make([][]string, 0, len(report.Pools))
	for _, p := range report.Pools {
		rows = append(rows, []string{
			p.Name,
			p.Kind,
			strconv.FormatBool(p.Shared),
			strconv.Itoa(p.Workers),
			strconv.FormatInt(p.Cycles, 10),
			strconv.FormatInt(p.Panics, 10),
			strconv.FormatFloat(p.Throughput, 'f', 0, 64),
			p.P50.Round(time.Microsecond).String(),
			p.P99.Round(time.Microsecond).String(),
			fmt.Sprintf("%.1f%%", p.Stats.HitRate()*100),
			strconv.FormatInt(p.Stats.Created, 10),
			strconv.Itoa(p.Spares),
			strconv.FormatBool(p.Poisoned),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nrun %s: %d cycles in %v\n", report.RunID, report.TotalCycles(), report.Duration.Round(time.Millisecond))
	if c := report.Compression; c != nil {
		fmt.Fprintf(w, "compression %s: %d codec uses, %d codecs built\n", c.Algorithm, c.Stats.Acquired, c.Stats.Created)
	}
	if r := report.Resources; r != nil {
		fmt.Fprintf(w, "rss %s, heap %s, gc %d, goroutines %d, cpu %.1f%%\n",
			formatBytes(r.MemoryRSS), formatBytes(r.HeapAlloc), r.NumGC, r.GoroutineCount, r.CPUPercent)
	}
	return nil
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
