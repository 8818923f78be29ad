package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/paulgmiller/trialetl/internal/iec"
	"github.com/paulgmiller/trialetl/internal/model"
	"github.com/paulgmiller/trialetl/internal/pipeline"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for keys and tags
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// headerStyle for group headings inside a criteria list
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

func renderSummary(sum pipeline.Summary) string {
	flags := make([]int, 0, len(sum.Flags))
	for f := range sum.Flags {
		flags = append(flags, f)
	}
	sort.Ints(flags)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Download summary"))
	fmt.Fprintf(&b, "\nwindows  %d\nstudies  %d\nfailed   %d", sum.Windows, sum.Studies, sum.Failed)
	for _, f := range flags {
		fmt.Fprintf(&b, "\n%s %d", dimStyle.Render(fmt.Sprintf("iec_flag %d:", f)), sum.Flags[f])
	}
	return boxStyle.Render(b.String())
}

func renderCriteria(kind iec.Kind, res iec.Result) string {
	return renderRows(kind, fmt.Sprintf("(status %d)", res.Status), res.Criteria)
}

// renderStudy prints a study's stored criteria, inclusion rows first.
func renderStudy(st model.Study) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", titleStyle.Render(st.DisplayTitle),
		dimStyle.Render(fmt.Sprintf("%s  iec_flag %d", st.SdSid, st.IECFlag)))
	for _, kind := range []iec.Kind{iec.Inclusion, iec.Exclusion} {
		rows := lo.Filter(st.Criteria, func(c iec.Criterion, _ int) bool { return iec.KindOf(c.IeTypeID) == kind })
		if len(rows) == 0 {
			continue
		}
		b.WriteString(renderRows(kind, fmt.Sprintf("(%d rows)", len(rows)), rows))
	}
	return b.String()
}

func renderRows(kind iec.Kind, note string, rows []iec.Criterion) string {
	var b strings.Builder
	title := cases.Title(language.English).String(string(kind)) + " criteria"
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(title), dimStyle.Render(note))
	for _, c := range rows {
		indent := strings.Repeat("  ", max(c.IndentLevel-1, 0))
		text := c.Criterion
		if c.IndentLevel == 1 {
			text = headerStyle.Render(text)
		}
		tag := ""
		if c.Tag != "" {
			tag = c.Tag + " "
		}
		fmt.Fprintf(&b, "%s %s%s%s %s\n",
			dimStyle.Width(14).Render(c.SequenceString), indent, dimStyle.Render(tag), text, dimStyle.Render("["+c.TagType+"]"))
	}
	return b.String()
}
