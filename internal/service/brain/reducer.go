package brain

import (
	"fmt"
	"strings"

	"github.com/sandevgo/pleiabot/internal/core"
)

// Reduce keeps replies short. With more than one result it samples a single
// record, states how many exist and tells the querent which command returns
// all of them. Zero or one result is described as is.
//
// The postfix is added to every sampled reply, so a "latest" question
// that carries no tokens still ends with For all matches, reply with
// "list latest".
func Reduce(rnd Random, label string, results []core.Place, tokens []string) ([]string, error) {
	if len(results) <= 1 {
		return describeAll(results)
	}

	i := rnd.Intn(len(results))
	sample, err := results[i].Describe()
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("I know about %d places relevant to your query. One of them is:", len(results))
	command := strings.TrimSpace(label + " " + strings.Join(tokens, " "))
	postfix := fmt.Sprintf("For all matches, reply with \"%s\"", command)

	return []string{strings.Join([]string{prefix, sample, postfix}, "\n\n")}, nil
}

func describeAll(results []core.Place) ([]string, error) {
	answers := make([]string, 0, len(results))
	for _, r := range results {
		s, err := r.Describe()
		if err != nil {
			return nil, err
		}
		answers = append(answers, s)
	}
	return answers, nil
}

// dedupe drops repeated records by identifier, keeping first-seen order.
func dedupe(results []core.Place) []core.Place {
	seen := make(map[string]struct{}, len(results))
	out := make([]core.Place, 0, len(results))
	for _, r := range results {
		key := r.ID
		if key == "" {
			key = "\x00" + r.Title + "\x00" + r.URI
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
