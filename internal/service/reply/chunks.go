package reply

import (
	"fmt"
	"strings"
)

// BuildChunks turns ordered answers into ordered messages, each within
// budget. Everything goes out as one message when it fits. Otherwise a
// summary comes first, followed by up to maxChunks answers labelled "k/n".
func BuildChunks(answers []string, querent string, budget, maxChunks int) ([]string, error) {
	if len(answers) == 0 {
		return nil, nil
	}
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}

	cooked := make([]string, len(answers))
	for i, a := range answers {
		c, err := CookReply(a, querent, budget)
		if err != nil {
			return nil, fmt.Errorf("answer %d of %d: %w", i+1, len(answers), err)
		}
		cooked[i] = c
	}

	if joined := strings.Join(cooked, "\n\n"); Len(joined) <= budget {
		return []string{joined}, nil
	}

	count := len(answers)
	shown := count
	var summary string
	if count > maxChunks {
		shown = maxChunks
		summary = fmt.Sprintf(
			"I have found %d place resources relevant to your query. In order to avoid opprobrium, "+
				"I am only allowed to return the first %d answers. I will provide information about "+
				"each of those place resources in subsequent replies.", count, maxChunks)
	} else {
		summary = fmt.Sprintf(
			"I have found %d place resources relevant to your query. I will provide information "+
				"about each of them in subsequent replies.", count)
	}

	head, err := CookReply(summary, querent, budget)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	chunks := make([]string, 0, shown+1)
	chunks = append(chunks, head)
	for i := 0; i < shown; i++ {
		label := fmt.Sprintf(" %d/%d", i+1, shown)
		part, err := CookReply(answers[i], querent, budget-Len(label))
		if err != nil {
			return nil, fmt.Errorf("answer %d of %d: %w", i+1, count, err)
		}
		chunks = append(chunks, part+label)
	}
	return chunks, nil
}
