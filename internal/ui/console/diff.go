package console

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// orderDiff renders a line diff of two load orders, one name per line.
func orderDiff(locked, current []string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(locked), joinLines(current))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				sb.WriteString("  " + line)
			case diffmatchpatch.DiffDelete:
				sb.WriteString(text.FgRed.Sprint("- "+strings.TrimSuffix(line, "\n")) + "\n")
			case diffmatchpatch.DiffInsert:
				sb.WriteString(text.FgGreen.Sprint("+ "+strings.TrimSuffix(line, "\n")) + "\n")
			}
		}
	}
	return sb.String()
}

func joinLines(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, "\n") + "\n"
}
