package config

import "os"

func IsDebug() bool {
	return os.Getenv("PLEIA_DEBUG") == "1"
}
