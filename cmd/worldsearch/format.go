package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	worldsearch "github.com/kailas-cloud/worldsearch/pkg/sdk"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Width(16)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Width(16)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func formatMs(ms float64) string {
	return fmt.Sprintf("(%.2f ms)", ms)
}

func formatStats(s worldsearch.Stats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("worlds") + "\n")
	for _, row := range [][2]string{
		{"total records", fmt.Sprintf("%d", s.TotalRecords)},
		{"table size", s.TableSize},
		{"index size", s.IndexSize},
		{"total size", s.TotalSize},
	} {
		b.WriteString(labelStyle.Render(row[0]) + row[1] + "\n")
	}
	return b.String()
}

func formatSearch(res worldsearch.SearchResponse) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%q", res.Query)) + "\n")
	if len(res.Results) == 0 {
		b.WriteString(metaStyle.Render("no matches") + "\n")
	}
	for _, r := range res.Results {
		b.WriteString(fmt.Sprintf("%s%-6.3f %s\n", matchStyle.Render(r.MatchType), r.Similarity, r.Title))
	}
	b.WriteString(metaStyle.Render(fmt.Sprintf("%d results in %d ms", len(res.Results), res.QueryTime.Milliseconds())) + "\n")
	return b.String()
}
