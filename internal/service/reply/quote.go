package reply

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

const (
	QuoteLeader = "     > "
	QuoteWidth  = 80
)

// BlockQuote renders text for console review: long lines wrapped to
// QuoteWidth, every line led by QuoteLeader, paragraphs separated by a bare
// leader line.
func BlockQuote(content string) string {
	limit := QuoteWidth - len(QuoteLeader)

	var served []string
	for i, paragraph := range strings.Split(content, "\n\n") {
		if i > 0 {
			served = append(served, strings.TrimRight(QuoteLeader, " "))
		}
		for _, line := range strings.Split(paragraph, "\n") {
			if Len(line) > limit {
				line = wordwrap.String(line, limit)
			}
			for _, l := range strings.Split(line, "\n") {
				served = append(served, QuoteLeader+strings.TrimRight(l, " "))
			}
		}
	}
	return strings.Join(served, "\n")
}
