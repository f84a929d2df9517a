// Package memory holds the in-memory place index the brain queries.
package memory

import (
	"sort"
	"strings"

	"github.com/sandevgo/pleiabot/internal/core"
)

const DefaultLatestLimit = 10

// NormalizeFunc canonicalizes names and lookup values the same way the
// brain cleans questions.
type NormalizeFunc func(string) string

type entry struct {
	place core.Place
	title string
	names [][]string // tokenized normalized names, title first
}

// Index is immutable once built and safe for concurrent readers.
type Index struct {
	places  []entry
	byID    map[string][]int
	byTitle map[string][]int
	latest  []core.Place
}

func NewIndex(places []core.Place, normalize NormalizeFunc, latestLimit int) *Index {
	if normalize == nil {
		normalize = strings.ToLower
	}
	if latestLimit <= 0 {
		latestLimit = DefaultLatestLimit
	}

	idx := &Index{
		places:  make([]entry, 0, len(places)),
		byID:    make(map[string][]int),
		byTitle: make(map[string][]int),
	}

	for _, p := range places {
		e := entry{place: p, title: normalize(p.Title)}
		for _, n := range append([]string{p.Title}, p.Names...) {
			if tokens := strings.Fields(normalize(n)); len(tokens) > 0 {
				e.names = append(e.names, tokens)
			}
		}

		i := len(idx.places)
		idx.places = append(idx.places, e)
		if p.ID != "" {
			idx.byID[p.ID] = append(idx.byID[p.ID], i)
		}
		if e.title != "" {
			idx.byTitle[e.title] = append(idx.byTitle[e.title], i)
		}
	}

	idx.latest = mostRecent(places, latestLimit)
	return idx
}

func (x *Index) Len() int {
	return len(x.places)
}

func (x *Index) Get(field core.Field, value string) []core.Place {
	switch field {
	case core.FieldLastModified:
		return append([]core.Place(nil), x.latest...)
	case core.FieldID:
		return x.collect(x.byID[value])
	case core.FieldName:
		if value == "" {
			return nil
		}
		return x.collect(x.byTitle[value])
	case core.FieldInName:
		return x.inName(value)
	default:
		return nil
	}
}

func (x *Index) collect(ids []int) []core.Place {
	if len(ids) == 0 {
		return nil
	}
	res := make([]core.Place, 0, len(ids))
	for _, i := range ids {
		res = append(res, x.places[i].place)
	}
	return res
}

// inName matches records where the value's words appear contiguously in the
// title or one of the alternate names.
func (x *Index) inName(value string) []core.Place {
	needle := strings.Fields(value)
	if len(needle) == 0 {
		return nil
	}

	var res []core.Place
	for _, e := range x.places {
		for _, name := range e.names {
			if containsRun(name, needle) {
				res = append(res, e.place)
				break
			}
		}
	}
	return res
}

func containsRun(haystack, needle []string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, w := range needle {
			if haystack[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func mostRecent(places []core.Place, limit int) []core.Place {
	sorted := append([]core.Place(nil), places...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Modified.Equal(sorted[j].Modified) {
			return sorted[i].Modified.After(sorted[j].Modified)
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
