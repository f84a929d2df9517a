package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	PleiaName          = "PleiaBot"
	PleiaVersion       = "0.1.0"
	PleiaRepositoryURL = "https://github.com/sandevgo/pleiabot"
	PleiaUserAgent     = PleiaName + "/" + PleiaVersion + " (+" + PleiaRepositoryURL + ")"
)

// Place is a single gazetteer record. It is treated as an immutable value
// once it leaves the loader.
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URI         string    `json:"uri"`
	Description string    `json:"description"`
	Details     string    `json:"details,omitempty"`
	Names       []string  `json:"names,omitempty"`
	Modified    time.Time `json:"modified"`
}

// MalformedRecordError reports a place that cannot be described because
// required fields are missing.
type MalformedRecordError struct {
	Place   Place
	Missing []string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed place record (missing %s): %+v", strings.Join(e.Missing, ", "), e.Place)
}

// Describe renders the place as one human-readable paragraph.
func (p Place) Describe() (string, error) {
	var missing []string
	if p.ID == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return "", &MalformedRecordError{Place: p, Missing: missing}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)", p.Title, p.ID)
	if desc := p.summary(); desc != "" {
		sb.WriteString(": ")
		sb.WriteString(desc)
		if !strings.HasSuffix(desc, ".") {
			sb.WriteString(".")
		}
	}
	if alt := p.alternateNames(); len(alt) > 0 {
		fmt.Fprintf(&sb, " Also known as: %s.", strings.Join(alt, ", "))
	}
	if !p.Modified.IsZero() {
		fmt.Fprintf(&sb, " Last modified %s.", p.Modified.UTC().Format(time.DateOnly))
	}
	if p.URI != "" {
		sb.WriteString(" ")
		sb.WriteString(p.URI)
	}
	return sb.String(), nil
}

func (p Place) String() string {
	s, err := p.Describe()
	if err != nil {
		return err.Error()
	}
	return s
}

func (p Place) alternateNames() []string {
	seen := map[string]bool{strings.ToLower(p.Title): true}
	var res []string
	for _, n := range p.Names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" || seen[key] {
			continue
		}
		seen[key] = true
		res = append(res, n)
	}
	return res
}

// summary prefers the short description and falls back to the first
// paragraph of the details, flattened to one line.
func (p Place) summary() string {
	if desc := strings.TrimSpace(p.Description); desc != "" {
		return desc
	}
	first, _, _ := strings.Cut(strings.TrimSpace(p.Details), "\n\n")
	return strings.Join(strings.Fields(first), " ")
}
