// Package reply fits generated answers into per-message character budgets.
package reply

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultBudget is a 500 character post limit less 12 for part labels.
	DefaultBudget    = 488
	DefaultMaxChunks = 5

	ellipsis = "..."
)

// ErrUnshortenable means an answer cannot be cut down into the budget.
var ErrUnshortenable = errors.New("answer cannot be shortened into budget")

// Len counts characters the way post limits do: in code points.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

func compose(querent, answer string) string {
	return querent + "\n\n" + answer
}

// CookReply prefixes the answer with the querent. When that is over budget
// the longest line of the longest paragraph loses trailing words and gets an
// ellipsis. Only that one line is shortened.
func CookReply(answer, querent string, budget int) (string, error) {
	reply := compose(querent, answer)
	length := Len(reply)
	if length <= budget {
		return reply, nil
	}
	reduceBy := length - budget

	paragraphs := strings.Split(answer, "\n\n")
	pi := longest(paragraphs)
	lines := strings.Split(paragraphs[pi], "\n")
	li := longest(lines)

	lineLen := Len(lines[li])
	goal := lineLen - reduceBy
	if goal < len(ellipsis) {
		return "", fmt.Errorf("%w: %d characters over, longest line has %d", ErrUnshortenable, reduceBy, lineLen)
	}

	lines[li] = truncateLine(lines[li], goal)
	paragraphs[pi] = strings.Join(lines, "\n")
	reply = compose(querent, strings.Join(paragraphs, "\n\n"))

	if Len(reply) > budget {
		return "", fmt.Errorf("%w: still %d characters over", ErrUnshortenable, Len(reply)-budget)
	}
	return reply, nil
}

// truncateLine drops trailing words until the line plus an ellipsis fits
// into goal characters. The result ends in exactly three dots.
func truncateLine(line string, goal int) string {
	words := strings.Fields(line)
	cut := ""
	for n := len(words) - 1; n >= 0; n-- {
		cut = strings.Join(words[:n], " ")
		if Len(cut) <= goal-len(ellipsis) {
			break
		}
	}
	return strings.TrimRight(cut, ".") + ellipsis
}

// longest returns the index of the longest item; ties go to the last one.
func longest(items []string) int {
	best, bestLen := 0, -1
	for i, it := range items {
		if l := Len(it); l >= bestLen {
			best, bestLen = i, l
		}
	}
	return best
}
