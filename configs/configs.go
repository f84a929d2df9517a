// Package configs embeds the default files the installer writes to the
// runtime directory.
package configs

import "embed"

const VocabularyFile = "vocabulary.yaml"

//go:embed vocabulary.yaml
var FS embed.FS
