package brain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary is the static word data the brain is configured with. A brain
// copies it at construction; later changes to a Vocabulary value are not
// observed by existing brains.
type Vocabulary struct {
	StopWords  []string   `yaml:"stop_words"`
	EasterEggs EasterEggs `yaml:"easter_eggs"`
}

type EasterEggs struct {
	Phrases  []string `yaml:"phrases"`
	Payloads []string `yaml:"payloads"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		StopWords: []string{
			"please", "give", "me", "a", "of", "place", "places", "what",
			"is", "the", "are", "which", "was", "active", "were",
		},
		EasterEggs: EasterEggs{
			Phrases: []string{
				"superluminal", "beamship", "phase conjugate", "reverse time travel",
				"ophanim", "wingmakers", "starseed", "golden ratio",
			},
			Payloads: []string{
				"Sterope", "Merope", "Electra", "Maia", "Taygeta", "Celaeno",
				"Alcyone", "Atlas", "Pleione", "Eta (25) Tauri", "27 Tauri",
				"17 Tauri", "20 Tauri", "23 Tauri", "19 Tauri", "28 (BU) Tauri",
				"16 Tauri", "Asterope", "21 Tauri", "22 Tauri", "18 Tauri",
				"Seven Sisters", "Messier 45", "Atlantides", "Vergiliae",
				"Matariki", "Krittika", "Thurayya", "MULMUL", "Mutsuraboshi",
				"Subaru", "1610", "NASFA",
				"https://en.wikipedia.org/wiki/Pleiades",
				"https://scaife.perseus.org/search/?kind=form&p=3&q=pleiades",
			},
		},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Sections missing from the
// file keep their default values.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := DefaultVocabulary()

	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	var file Vocabulary
	if err := yaml.Unmarshal(data, &file); err != nil {
		return v, fmt.Errorf("failed to parse vocabulary %s: %w", path, err)
	}

	if file.StopWords != nil {
		v.StopWords = file.StopWords
	}
	if file.EasterEggs.Phrases != nil {
		v.EasterEggs.Phrases = file.EasterEggs.Phrases
	}
	if file.EasterEggs.Payloads != nil {
		v.EasterEggs.Payloads = file.EasterEggs.Payloads
	}
	return v, nil
}

func (v Vocabulary) clone() Vocabulary {
	return Vocabulary{
		StopWords: append([]string(nil), v.StopWords...),
		EasterEggs: EasterEggs{
			Phrases:  append([]string(nil), v.EasterEggs.Phrases...),
			Payloads: append([]string(nil), v.EasterEggs.Payloads...),
		},
	}
}
