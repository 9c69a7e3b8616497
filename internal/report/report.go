// Package report renders the post-run Markdown summary for load-graph and
// distributed-load, adapted from the teacher's pkg/core/utils markdown
// helpers (CleanMarkdown/ValidateMarkdown) onto this module's own stats.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"

	"github.com/se7ensam/orion-graph/internal/domain"
)

// Summary is the data a load run reports on completion.
type Summary struct {
	Command          string
	FilingsProcessed int
	Stats            domain.LoadStats
	Elapsed          time.Duration
	Failed           int
}

// Render produces the Markdown report body for a Summary.
func Render(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s summary\n\n", s.Command)
	fmt.Fprintf(&b, "- Filings processed: %d\n", s.FilingsProcessed)
	fmt.Fprintf(&b, "- Companies upserted: %d\n", s.Stats.Companies)
	fmt.Fprintf(&b, "- People upserted: %d\n", s.Stats.People)
	fmt.Fprintf(&b, "- Events upserted: %d\n", s.Stats.Events)
	fmt.Fprintf(&b, "- Relationships upserted: %d\n", s.Stats.Relationships)
	if s.Failed > 0 {
		fmt.Fprintf(&b, "- Failed jobs: %d\n", s.Failed)
	}
	fmt.Fprintf(&b, "- Elapsed: %s\n", s.Elapsed.Round(time.Second))
	return clean(b.String())
}

// clean mirrors the teacher's CleanMarkdown: strips outer code-fence
// wrapping and surrounding whitespace, in case a future template stage
// wraps the body in a fenced block.
func clean(input string) string {
	cleaned := strings.TrimSpace(input)
	for _, fence := range []string{"```markdown", "```"} {
		if strings.HasPrefix(cleaned, fence) && strings.HasSuffix(cleaned, "```") {
			cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, fence), "```")
			cleaned = strings.TrimSpace(cleaned)
			break
		}
	}
	return cleaned
}

// Validate parses body with goldmark's default parser and reports whether a
// document node came back; it does not check the Markdown for errors.
func Validate(body string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(body))
	doc := parser.Parse(reader)
	return doc != nil
}
