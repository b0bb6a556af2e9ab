package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	"github.com/KaramelBytes/moviecorpus-cli/internal/utils"
)

const barWidth = 40

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// view is something a command can print in every output format.
type view struct {
	title   string
	headers []string
	rows    [][]string
	aligns  []columnAlignment
	// data is marshalled for --format json.
	data  any
	notes []string
}

func validateFormat(f string) error {
	switch f {
	case "table", "json", "markdown", "md":
		return nil
	}
	return fmt.Errorf("unsupported --format: %s (use table|json|markdown)", f)
}

func render(w io.Writer, v view) error {
	switch outputFormat {
	case "json":
		b, err := utils.PrettyJSON(v.data)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
	case "markdown", "md":
		if v.title != "" {
			fmt.Fprintf(w, "## %s\n\n", v.title)
		}
		fmt.Fprintln(w, newTable(v.headers, v.rows, v.aligns).RenderMarkdown())
		for _, n := range v.notes {
			fmt.Fprintf(w, "\n> %s\n", n)
		}
	default:
		if v.title != "" {
			fmt.Fprintln(w, v.title)
		}
		fmt.Fprintln(w, newTable(v.headers, v.rows, v.aligns).Render())
		for _, n := range v.notes {
			fmt.Fprintln(w, n)
		}
	}
	return nil
}

func newTable(headers []string, rows [][]string, aligns []columnAlignment) table.Writer {
	columns := len(headers)
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if columns == 0 {
		return tw
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)
	return tw
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// bar draws count as a proportion of peak, barWidth cells wide.
func bar(count, peak int, colorize bool) string {
	if peak <= 0 || count <= 0 {
		return ""
	}
	n := count * barWidth / peak
	if n == 0 {
		n = 1
	}
	s := strings.Repeat("█", n)
	if colorize {
		return text.Colors{text.FgCyan}.Sprint(s)
	}
	return s
}

// distributionView renders integer-keyed buckets with a bar column.
func distributionView(w io.Writer, title, keyHeader string, d analysis.Distribution) view {
	colorize := outputFormat == "table" && shouldColorize(w)
	peak := d.Max()
	rows := make([][]string, 0, len(d.Buckets))
	for _, b := range d.Buckets {
		rows = append(rows, []string{b.Label, strconv.Itoa(b.Count), bar(b.Count, peak, colorize)})
	}
	return view{
		title:   title,
		headers: []string{keyHeader, "Count", ""},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignRight, alignLeft},
		data:    d,
		notes:   []string{exclusionNote(d.Included, d.Excluded, d.Filtered)},
	}
}

func exclusionNote(included, excluded, filtered int) string {
	s := fmt.Sprintf("%d rows included, %d excluded (missing data)", included, excluded)
	if filtered > 0 {
		s += fmt.Sprintf(", %d filtered out", filtered)
	}
	return s
}

func warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "⚠ "+format+"\n", args...)
}
