// Package report renders ranked frequency records as console previews.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/wordfreq/models"
)

const (
	// truncateAt is the cell width past which truncated views shorten a value.
	truncateAt    = 20
	minColumnSize = 3
)

// Show writes the first n records as a bordered table.
// With truncate, long cells are cut to 17 characters plus "..." and right-aligned;
// without it, cells are printed in full and left-aligned.
// A trailing note is printed when more than n records exist.
func Show(w io.Writer, records []models.FrequencyRecord, n int, truncate bool) error {
	if n < 0 {
		n = 0
	}
	hasMore := len(records) > n
	if hasMore {
		records = records[:n]
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{"word", "count"})
	for _, r := range records {
		rows = append(rows, []string{cell(r.Word, truncate), cell(strconv.Itoa(r.Count), truncate)})
	}

	widths := []int{minColumnSize, minColumnSize}
	for _, row := range rows {
		for i, c := range row {
			if l := utf8.RuneCountInString(c); l > widths[i] {
				widths[i] = l
			}
		}
	}

	var sb strings.Builder
	sep := separator(widths)
	sb.WriteString(sep)
	for i, row := range rows {
		sb.WriteByte('|')
		for j, c := range row {
			sb.WriteString(pad(c, widths[j], truncate))
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
		if i == 0 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString(sep)

	if hasMore {
		noun := "rows"
		if n == 1 {
			noun = "row"
		}
		fmt.Fprintf(&sb, "only showing top %d %s\n", n, noun)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func cell(s string, truncate bool) string {
	if truncate && utf8.RuneCountInString(s) > truncateAt {
		r := []rune(s)
		return string(r[:truncateAt-3]) + "..."
	}
	return s
}

func pad(s string, width int, right bool) string {
	fill := strings.Repeat(" ", width-utf8.RuneCountInString(s))
	if right {
		return fill + s
	}
	return s + fill
}

func separator(widths []int) string {
	var sb strings.Builder
	sb.WriteByte('+')
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteByte('+')
	}
	sb.WriteByte('\n')
	return sb.String()
}
