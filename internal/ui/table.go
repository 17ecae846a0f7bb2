package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// RenderTable writes a borderless, left-aligned table
func RenderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

// StepStatus renders a pass/fail marker, coloured when the terminal allows it
func StepStatus(err error) string {
	if err != nil {
		if supportsColor {
			return color.RedString("FAILED")
		}
		return "FAILED"
	}
	if supportsColor {
		return color.GreenString("OK")
	}
	return "OK"
}

// FormatDuration renders a duration for summaries
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
