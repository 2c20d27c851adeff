package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"
)

var (
	headerColor = color.New(color.FgRed, color.Bold)
	pointerColor = color.New(color.FgCyan)
	caretColor   = color.New(color.FgRed, color.Bold)
)

// Render produces the user-visible failure format for r:
//
//	error: <message>
//	  --> file:line:column
//	       | <previous source line>
//	<line> | <source line>
//	       |      ^
//
// The previous line is shown with a blank gutter, and only when the error is
// not on line 1. source is the full text of the file named by r.Span (empty
// if unknown, in which case only the header and --> lines are produced). The
// single caret's indent accounts for display width via
// golang.org/x/text/width, so the caret lands under the right column even
// when the source line contains wide or combining characters before the
// offending token.
func Render(r *Report, source string) string {
	var b strings.Builder
	b.WriteString(headerColor.Sprintf("error: %s", r.Message))
	b.WriteByte('\n')

	if r.Span == nil {
		return b.String()
	}

	b.WriteString(pointerColor.Sprintf("  --> %s:%d:%d", r.Span.File, r.Span.Line, r.Span.Column))
	b.WriteByte('\n')

	if source == "" {
		return b.String()
	}
	lines := strings.Split(source, "\n")
	lineIdx := r.Span.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return b.String()
	}

	gutter := fmt.Sprintf("%d", r.Span.Line)
	pad := strings.Repeat(" ", len(gutter))

	if lineIdx > 0 {
		fmt.Fprintf(&b, "%s | %s\n", pad, lines[lineIdx-1])
	}
	fmt.Fprintf(&b, "%s | %s\n", gutter, lines[lineIdx])

	prefix := runeDisplayWidth(lines[lineIdx], r.Span.Column-1)
	caret := caretColor.Sprint("^")
	fmt.Fprintf(&b, "%s | %s%s\n", pad, strings.Repeat(" ", prefix), caret)

	return b.String()
}

// runeDisplayWidth returns the display-column width of the first n runes of
// s, counting East Asian wide/fullwidth runes as 2 columns so the caret
// lines up under multi-byte tokens.
func runeDisplayWidth(s string, n int) int {
	col := 0
	count := 0
	for _, r := range s {
		if count >= n {
			break
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			col += 2
		default:
			col++
		}
		count++
	}
	return col
}
