// Package gazetteer reads Pleiades JSON exports into place records.
package gazetteer

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/sandevgo/pleiabot/pkg/log"
)

type rawName struct {
	Romanized string `json:"romanized"`
	Attested  string `json:"attested"`
}

type rawPlace struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	URI         string          `json:"uri"`
	Description string          `json:"description"`
	Details     string          `json:"details"`
	Modified    string          `json:"modified"`
	Names       []rawName       `json:"names"`
	History     []struct {
		Modified string `json:"modified"`
	} `json:"history"`
}

type dump struct {
	Graph []rawPlace `json:"@graph"`
}

var modifiedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// Load reads a single .json / .json.gz export with an "@graph" array, or a
// directory tree of per-place .json files.
func Load(ctx context.Context, path string) ([]core.Place, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat gazetteer: %w", err)
	}

	var places []core.Place
	if info.IsDir() {
		places, err = loadTree(ctx, path)
	} else {
		places, err = loadFile(path)
	}
	if err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Info().Int("places", len(places)).Str("path", path).Msg("gazetteer loaded")
	return places, nil
}

func loadTree(ctx context.Context, root string) ([]core.Place, error) {
	var places []core.Place
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isJSON(path) {
			return nil
		}
		found, err := loadFile(path)
		if err != nil {
			return err
		}
		places = append(places, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk gazetteer tree: %w", err)
	}
	return places, nil
}

func isJSON(path string) bool {
	return strings.HasSuffix(path, ".json") || strings.HasSuffix(path, ".json.gz")
}

func loadFile(path string) ([]core.Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	places, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return places, nil
}

// Decode parses either an export with an "@graph" array or one place object.
func Decode(r io.Reader) ([]core.Place, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var d dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}

	raws := d.Graph
	if raws == nil {
		var single rawPlace
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, err
		}
		if len(single.ID) == 0 && single.Title == "" {
			return nil, errors.New("no places found")
		}
		raws = []rawPlace{single}
	}

	places := make([]core.Place, 0, len(raws))
	for _, raw := range raws {
		places = append(places, raw.toPlace())
	}
	return places, nil
}

func (r rawPlace) toPlace() core.Place {
	p := core.Place{
		ID:          decodeID(r.ID),
		Title:       strings.TrimSpace(r.Title),
		URI:         r.URI,
		Description: strings.TrimSpace(r.Description),
		Modified:    r.modified(),
	}

	if r.Details != "" {
		if text, err := html2text.FromString(r.Details, html2text.Options{OmitLinks: true}); err == nil {
			p.Details = strings.TrimSpace(text)
		}
	}

	for _, n := range r.Names {
		for _, variant := range strings.Split(n.Romanized, ",") {
			if v := strings.TrimSpace(variant); v != "" {
				p.Names = append(p.Names, v)
			}
		}
		if a := strings.TrimSpace(n.Attested); a != "" {
			p.Names = append(p.Names, a)
		}
	}
	return p
}

// decodeID accepts identifiers exported either as strings or as numbers.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func (r rawPlace) modified() time.Time {
	candidates := []string{r.Modified}
	for _, h := range r.History {
		candidates = append(candidates, h.Modified)
	}

	var latest time.Time
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, layout := range modifiedLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				if t.After(latest) {
					latest = t
				}
				break
			}
		}
	}
	return latest
}
