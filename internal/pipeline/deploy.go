package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasnoah/buildfix/internal/fsx"
)

// deploy copies the build output into the deploy dir. The fresh copy is
// staged beside the deploy dir and swapped in with a rename: a failed copy
// leaves the previous assets untouched, and stale files never survive the
// swap.
func (e *Engine) deploy() error {
	src := filepath.Join(e.root, e.cfg.Frontend.BuildDir)
	dst := filepath.Join(e.root, e.cfg.Frontend.DeployDir)
	staging := dst + ".staging"

	if !fsx.IsDir(src) {
		return fmt.Errorf("build output %s not found", e.cfg.Frontend.BuildDir)
	}

	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("clear staging dir: %w", err)
	}
	if err := fsx.CopyDir(src, staging); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("stage build output: %w", err)
	}
	if err := os.RemoveAll(dst); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("remove old deploy dir: %w", err)
	}
	if err := os.Rename(staging, dst); err != nil {
		return fmt.Errorf("swap deploy dir: %w", err)
	}
	return nil
}
