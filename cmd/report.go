package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/i4mm/linesim/sim/replication"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgYellow)
	warnColor   = color.New(color.FgRed)
)

// writeJSONReport encodes the batch with json-iterator in encoding/json
// compatible mode; a nil lead time is emitted as null.
func writeJSONReport(w io.Writer, report *BatchReport) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func formatDist(d replication.Distribution, unit string) string {
	if d.Count == 0 {
		return "n/a"
	}
	if d.Count == 1 {
		return fmt.Sprintf("%.2f%s", d.Mean, unit)
	}
	return fmt.Sprintf("%.2f%s ± %.2f (p50 %.2f, p95 %.2f)", d.Mean, unit, d.CI95, d.P50, d.P95)
}

// writeTextReport prints a per-scenario summary followed by a comparison table.
func writeTextReport(w io.Writer, report *BatchReport) {
	headerColor.Fprintf(w, "=== linesim batch %s ===\n", report.BatchID)
	for _, sr := range report.Scenarios {
		s := sr.Summary
		fmt.Fprintln(w)
		headerColor.Fprintf(w, "Scenario %s\n", sr.Scenario)
		if sr.Description != "" {
			fmt.Fprintf(w, "  %s\n", sr.Description)
		}
		fmt.Fprintf(w, "  %s %d x %.0f min\n", labelColor.Sprint("Replications:"), s.Replications, sr.HorizonMinutes)
		fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("Throughput:  "), formatDist(s.Throughput, " units/h"))
		fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("Lead time:   "), formatDist(s.LeadTime, " min"))
		if s.NoCompletions > 0 {
			warnColor.Fprintf(w, "  %d replication(s) completed no jobs\n", s.NoCompletions)
		}
		fmt.Fprintf(w, "  %s %.1f generated, %.1f completed (mean)\n", labelColor.Sprint("Jobs:        "),
			s.Generated.Mean, s.Completed.Mean)
		for _, m := range s.Machines {
			fmt.Fprintf(w, "    %-12s util %5.1f%%  down %5.1f%%  failures %.2f\n",
				m.Name, 100*m.Utilization.Mean, 100*m.DowntimeFraction.Mean, m.Failures.Mean)
		}
		if len(sr.Traces) > 0 {
			writeTraceTotals(w, sr)
		}
	}

	if len(report.Scenarios) > 1 {
		fmt.Fprintln(w)
		headerColor.Fprintln(w, "Comparison")
		fmt.Fprintf(w, "  %-20s %14s %14s\n", "Scenario", "Throughput/h", "Lead time min")
		for _, sr := range report.Scenarios {
			lead := "n/a"
			if sr.Summary.LeadTime.Count > 0 {
				lead = fmt.Sprintf("%.1f", sr.Summary.LeadTime.Mean)
			}
			fmt.Fprintf(w, "  %-20s %14.2f %14s\n", sr.Scenario, sr.Summary.Throughput.Mean, lead)
		}
	}
}

func writeTraceTotals(w io.Writer, sr ScenarioReport) {
	failures := make(map[string]int)
	repairs := make(map[string]float64)
	events := 0
	for _, ts := range sr.Traces {
		events += ts.TotalEvents
		for m, n := range ts.FailuresByMachine {
			failures[m] += n
		}
		for m, d := range ts.RepairByMachine {
			repairs[m] += d
		}
	}
	names := make([]string, 0, len(failures))
	for m := range failures {
		names = append(names, m)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "  %s %d events traced\n", labelColor.Sprint("Trace:       "), events)
	for _, m := range names {
		fmt.Fprintf(w, "    %-12s %d failures, %.1f repair min\n", m, failures[m], repairs[m])
	}
}
