package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	api "ipwatch/internal/api"
)

var (
	colorRed    = color.New(color.FgRed, color.Bold).SprintFunc()
	colorYellow = color.New(color.FgYellow).SprintFunc()
	colorGreen  = color.New(color.FgGreen).SprintFunc()
	colorCyan   = color.New(color.FgCyan).SprintFunc()
)

// verdict colours a recommendation by urgency.
func verdict(rec string) string {
	switch rec {
	case "IMMEDIATE_ACTION_REQUIRED", "LEGAL_ACTION_RECOMMENDED":
		return colorRed(rec)
	case "MONITOR_CLOSELY":
		return colorYellow(rec)
	default:
		return colorGreen(rec)
	}
}

func status(s api.JobStatus) string {
	switch s {
	case api.JobStatusFailed:
		return colorRed(string(s))
	case api.JobStatusCompleted:
		return colorGreen(string(s))
	default:
		return colorYellow(string(s))
	}
}

func printJob(w io.Writer, j api.Job) {
	fmt.Fprintf(w, "job     %s\n", colorCyan(j.Id))
	fmt.Fprintf(w, "url     %s (%s)\n", j.TargetUrl, j.TargetDomain)
	fmt.Fprintf(w, "asset   %s\n", j.AssetId)
	fmt.Fprintf(w, "status  %s\n", status(j.Status))
	if j.ErrorMessage != nil {
		fmt.Fprintf(w, "error   %s\n", colorRed(*j.ErrorMessage))
	}
}

func printExecution(w io.Writer, r api.ExecutionResult) {
	printJob(w, r.Job)
	a := r.Assessment
	fmt.Fprintf(w, "risk    %d/100 %s\n", a.OverallRiskScore, verdict(a.Recommendation))
	for _, f := range a.Factors {
		fmt.Fprintf(w, "  %-16s score %5.1f  weight %.2f  +%.1f\n", f.Name, f.Score, f.Weight, f.Contribution)
	}
	if r.Log.ScreenshotUrl != nil {
		fmt.Fprintf(w, "shot    %s\n", *r.Log.ScreenshotUrl)
	}
	if r.AutoCaseId != nil {
		state := "linked to existing case"
		if r.AutoCaseCreated {
			state = "opened case"
		}
		fmt.Fprintf(w, "case    %s %s\n", state, colorCyan(*r.AutoCaseId))
	}
}

func printDetail(w io.Writer, d api.JobDetail) {
	printJob(w, d.Job)
	for _, l := range d.Logs {
		line := fmt.Sprintf("log     %s risk %d", l.CreatedAt.Format("2006-01-02 15:04:05"), l.RiskScore)
		if l.AutoCaseId != nil {
			line += " case " + colorCyan(*l.AutoCaseId)
		}
		fmt.Fprintln(w, line)
	}
}

func printStats(w io.Writer, s api.Stats) {
	fmt.Fprintf(w, "jobs       %d\n", s.TotalJobs)
	statuses := make([]string, 0, len(s.JobsByStatus))
	for k := range s.JobsByStatus {
		statuses = append(statuses, k)
	}
	sort.Strings(statuses)
	for _, k := range statuses {
		fmt.Fprintf(w, "  %-9s %d\n", status(api.JobStatus(k)), s.JobsByStatus[k])
	}
	fmt.Fprintf(w, "avg risk   %.1f\n", s.AverageRiskScore)
	fmt.Fprintf(w, "high risk  %s\n", colorRed(s.HighRiskCount))
}
