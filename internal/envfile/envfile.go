// Package envfile bootstraps and inspects dotenv-style configuration files
// for the backend.
package envfile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/lucasnoah/buildfix/internal/fsx"
)

// Bootstrap creates the live env file from the template when the live file
// is absent. The copy is byte-for-byte; an existing live file is never
// touched, and a missing template is a no-op.
func Bootstrap(live, template string) (created bool, err error) {
	if fsx.Exists(live) {
		return false, nil
	}
	data, err := os.ReadFile(template)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read env template: %w", err)
	}
	if err := fsx.WriteAtomic(live, data); err != nil {
		return false, fmt.Errorf("write env file: %w", err)
	}
	return true, nil
}

// MissingValues returns the keys in the env file at path whose values are
// empty, sorted. A missing or unparseable file yields nil; callers treat
// both as nothing to flag.
func MissingValues(path string) []string {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil
	}
	var keys []string
	for k, v := range vars {
		if strings.TrimSpace(v) == "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
