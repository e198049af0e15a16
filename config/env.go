package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadEnv reads KEY=value files into the environment without overriding
// variables that are already set. With no arguments it reads ".env".
// Missing files are skipped; a file that exists but does not parse is an
// error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %q: %w", f, err)
		}
	}
	return nil
}
