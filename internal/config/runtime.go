package config

import (
	"os"
	"path/filepath"
)

const (
	GazetteerFileName = "pleiades-places-latest.json.gz"
	GazetteerURL      = "https://atlantides.org/downloads/pleiades/json/pleiades-places-latest.json.gz"
)

func GetRuntimePath() string {
	path := os.Getenv("PLEIA_RUNTIME_PATH")
	if path == "" {
		path = ".pleiabot"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
