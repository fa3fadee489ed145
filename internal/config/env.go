package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env then .env.local from dir. godotenv never overrides
// variables that are already set, so the process environment wins and .env
// wins over .env.local.
func loadEnvFiles(dir string) error {
	loaded := 0
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		slog.Debug("Loaded environment variables", slog.String("file", path))
		loaded++
	}
	if loaded == 0 {
		return fmt.Errorf("no .env file found in %s", dir)
	}
	return nil
}
