package crossfile

import (
	"fmt"
	"strings"

	"github.com/verdict-dev/verdict/internal/review"
)

// windowLines is the size of a normalized code window compared across files.
const windowLines = 5

// DuplicateBlocks reports code blocks of windowLines or more normalized
// lines that appear in two or more files. One finding per file pair, on
// the first shared window found.
func DuplicateBlocks(files []review.SourceFile, results []review.FileResult) []review.FeedbackItem {
	windows := make(map[string]string) // window hash -> first filename
	reported := make(map[string]struct{})

	var items []review.FeedbackItem
	for _, f := range files {
		lines := normalizedLines(f.Content)
		seenHere := make(map[string]struct{})
		for i := 0; i+windowLines <= len(lines); i++ {
			w := strings.Join(lines[i:i+windowLines], "\n")
			if _, dup := seenHere[w]; dup {
				continue
			}
			seenHere[w] = struct{}{}
			first, ok := windows[w]
			if !ok {
				windows[w] = f.Filename
				continue
			}
			pair := first + "|" + f.Filename
			if _, done := reported[pair]; done {
				continue
			}
			reported[pair] = struct{}{}
			items = append(items, crossItem(
				review.CategoryStyle,
				review.SeverityLow,
				fmt.Sprintf("%s and %s share a duplicated code block of at least %d lines.", first, f.Filename, windowLines),
				"Extract the shared logic into a common function or module.",
			))
		}
	}
	return items
}

// normalizedLines strips indentation and blank or comment-only lines so
// that cosmetic differences do not hide duplication.
func normalizedLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		out = append(out, line)
	}
	return out
}
