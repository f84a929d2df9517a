package brain

import "strings"

// maxPermutedTokens bounds name candidate generation; 6 tokens already
// produce 720 candidates.
const maxPermutedTokens = 6

// nameCandidates returns every ordering of the tokens joined by spaces, so
// "athens ancient" also finds "ancient athens".
func nameCandidates(tokens []string) []string {
	switch {
	case len(tokens) == 0:
		return nil
	case len(tokens) == 1:
		return []string{tokens[0]}
	case len(tokens) > maxPermutedTokens:
		return []string{strings.Join(tokens, " ")}
	}

	var out []string
	permute(tokens, func(p []string) {
		out = append(out, strings.Join(p, " "))
	})
	return out
}

// permute visits permutations in lexicographic order of positions.
func permute(items []string, visit func([]string)) {
	used := make([]bool, len(items))
	cur := make([]string, 0, len(items))

	var rec func()
	rec = func() {
		if len(cur) == len(items) {
			visit(cur)
			return
		}
		for i, it := range items {
			if used[i] {
				continue
			}
			used[i] = true
			cur = append(cur, it)
			rec()
			cur = cur[:len(cur)-1]
			used[i] = false
		}
	}
	rec()
}
