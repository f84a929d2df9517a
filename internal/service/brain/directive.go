package brain

import (
	"fmt"
	"regexp"
	"strings"
)

// Handler identifies the answer routine a directive dispatches to.
type Handler int

const (
	HandleListLatest Handler = iota + 1
	HandleMostRecent
	HandleNamed
	HandleListNamed
	HandlePID
	HandleListPID
	HandleAge
)

func (h Handler) String() string {
	switch h {
	case HandleListLatest:
		return "list_latest"
	case HandleMostRecent:
		return "most_recent"
	case HandleNamed:
		return "named"
	case HandleListNamed:
		return "list_named"
	case HandlePID:
		return "pid"
	case HandleListPID:
		return "list_pid"
	case HandleAge:
		return "age"
	default:
		return fmt.Sprintf("handler(%d)", int(h))
	}
}

// tokensGroup is the capture group a matcher uses to hand words to its handler.
const tokensGroup = "tokens"

// Directive is one routing rule. Triggers are cheap substring checks made
// before any matcher runs; a matcher must match the whole normalized question.
type Directive struct {
	Name     string
	Triggers []string
	Matchers []*regexp.Regexp
	Handler  Handler
}

// Triggered reports whether any trigger occurs in the question.
func (d Directive) Triggered(question string) bool {
	for _, t := range d.Triggers {
		if strings.Contains(question, t) {
			return true
		}
	}
	return false
}

// Match returns the captured tokens of the first matcher that matches the
// whole question.
func (d Directive) Match(question string) ([]string, bool) {
	for _, m := range d.Matchers {
		sub := m.FindStringSubmatch(question)
		if sub == nil {
			continue
		}
		idx := m.SubexpIndex(tokensGroup)
		if idx < 0 {
			return []string{}, true
		}
		return strings.Fields(sub[idx]), true
	}
	return nil, false
}

func fullMatch(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + pattern + `)$`)
}

// DefaultDirectives returns the directive table in dispatch order. Order is
// significant: short triggers such as "id" would otherwise shadow later rules.
func DefaultDirectives() []Directive {
	return []Directive{
		{
			Name:     "list_latest",
			Triggers: []string{"list latest", "list recent", "list last modified", "list most recent", "list latest updates"},
			Matchers: []*regexp.Regexp{
				fullMatch(`list (latest|recent|most recent|last modified|latest updates)`),
			},
			Handler: HandleListLatest,
		},
		{
			Name:     "named",
			Triggers: []string{"name", "named", "called"},
			Matchers: []*regexp.Regexp{
				fullMatch(`(name|named|called) (?P<tokens>.+)`),
			},
			Handler: HandleNamed,
		},
		{
			Name:     "pid",
			Triggers: []string{"pid", "pleiades id", "pleiades uri", "http", "id"},
			Matchers: []*regexp.Regexp{
				// place URLs arrive with their punctuation already stripped
				fullMatch(`((pid|pleiades id|id|pleiades uri|uri) )?https?pleiadesstoaorgplaces(?P<tokens>\d+)`),
				fullMatch(`(pid|pleiades id|id) (?P<tokens>.+)`),
			},
			Handler: HandlePID,
		},
		{
			Name:     "list_named",
			Triggers: []string{"list named"},
			Matchers: []*regexp.Regexp{
				fullMatch(`(list named) (?P<tokens>.+)`),
			},
			Handler: HandleListNamed,
		},
		{
			Name:     "list_pid",
			Triggers: []string{"list pid"},
			Matchers: []*regexp.Regexp{
				fullMatch(`(list pid) (?P<tokens>.+)`),
			},
			Handler: HandleListPID,
		},
		{
			Name:     "latest",
			Triggers: []string{"latest", "recent", "modified", "last", "update"},
			Matchers: []*regexp.Regexp{
				fullMatch(`recent|latest|most recent|recently modified|last|most recently modified|latest updates`),
			},
			Handler: HandleMostRecent,
		},
		{
			Name:     "age",
			Triggers: []string{"age", "old", "when"},
			Matchers: []*regexp.Regexp{
				fullMatch(`(how old|when|age) (?P<tokens>.+)`),
			},
			Handler: HandleAge,
		},
	}
}
