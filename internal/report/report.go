// Package report derives the project's build status from what is actually
// on disk and renders it for the terminal, the report file, and JSON output.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasnoah/buildfix/internal/config"
	"github.com/lucasnoah/buildfix/internal/envfile"
	"github.com/lucasnoah/buildfix/internal/fsx"
	"github.com/lucasnoah/buildfix/internal/toolchain"
	"github.com/lucasnoah/buildfix/internal/ui"
)

// ComponentStatus records whether one expected artifact exists on disk.
type ComponentStatus struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

// Report is a point-in-time snapshot of the project's build state. Every
// Present flag and BuildReady itself come from fresh stat calls, never from
// stage bookkeeping, so the report stays truthful even after a crashed run.
type Report struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Project     string            `json:"project"`
	Versions    map[string]string `json:"versions"`
	Components  []ComponentStatus `json:"components"`
	NextSteps   string            `json:"next_steps"`
	BuildReady  bool              `json:"build_ready"`
}

// Reporter generates and persists Reports for one project.
type Reporter struct {
	root   string
	cfg    *config.Config
	prober *toolchain.Prober
}

// New returns a Reporter for the project rooted at root.
func New(root string, cfg *config.Config, prober *toolchain.Prober) *Reporter {
	return &Reporter{root: root, cfg: cfg, prober: prober}
}

// Generate stats the expected artifacts and re-probes tool versions for the
// header. It cannot fail: absent tools render as "not found" and absent
// artifacts as unchecked components.
func (r *Reporter) Generate(ctx context.Context) *Report {
	ready := fsx.Exists(filepath.Join(r.root, r.cfg.Frontend.BuildDir))

	return &Report{
		GeneratedAt: time.Now(),
		Project:     r.cfg.Project,
		Versions:    r.prober.Versions(ctx),
		Components:  r.components(),
		BuildReady:  ready,
		NextSteps:   r.nextSteps(ready),
	}
}

// Write persists the rendered report to the configured path, overwriting
// any previous run's report.
func (r *Reporter) Write(rep *Report) error {
	path := filepath.Join(r.root, r.cfg.Report.File)
	if err := fsx.WriteAtomic(path, []byte(rep.Render())); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// components stats the five artifacts the original deployment checklist
// tracks.
func (r *Reporter) components() []ComponentStatus {
	entries := []struct {
		name string
		rel  string
	}{
		{"Backend Dependencies", filepath.Join(r.cfg.Backend.Dir, "node_modules")},
		{"Frontend Dependencies", filepath.Join(r.cfg.Frontend.Dir, "node_modules")},
		{"Frontend Build", r.cfg.Frontend.BuildDir},
		{"Public Assets", r.cfg.Frontend.DeployDir},
		{"Environment Config", r.cfg.Backend.EnvFile},
	}
	out := make([]ComponentStatus, len(entries))
	for i, e := range entries {
		out[i] = ComponentStatus{
			Name:    e.name,
			Path:    e.rel,
			Present: fsx.Exists(filepath.Join(r.root, e.rel)),
		}
	}
	return out
}

func (r *Reporter) nextSteps(ready bool) string {
	var b strings.Builder
	if ready {
		b.WriteString("BUILD SUCCESSFUL! Your application is ready.\n\n")
		b.WriteString("To start the application:\n")
		b.WriteString("  1. Start the backend: npm run dev\n")
		b.WriteString("  2. Open your browser to: http://localhost:3001\n")
		b.WriteString("  3. Configure your .env file with API keys for live data\n")
		missing := envfile.MissingValues(filepath.Join(r.root, r.cfg.Backend.EnvFile))
		if len(missing) > 0 {
			fmt.Fprintf(&b, "\nValues still unset in %s: %s\n",
				r.cfg.Backend.EnvFile, strings.Join(missing, ", "))
		}
	} else {
		b.WriteString("BUILD INCOMPLETE\n\n")
		b.WriteString("The frontend build failed. Common fixes:\n")
		fmt.Fprintf(&b, "  1. Check TypeScript errors: cd %s && %s\n",
			r.cfg.Frontend.Dir, r.cfg.Commands.TypeCheck)
		fmt.Fprintf(&b, "  2. Reinstall dependencies: rm -rf node_modules && %s\n",
			r.cfg.Commands.Install)
		fmt.Fprintf(&b, "  3. Try building manually: cd %s && %s\n",
			r.cfg.Frontend.Dir, r.cfg.Commands.Build)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Render formats the report as plain text. The persisted artifact carries
// status glyphs but no ANSI sequences.
func (rep *Report) Render() string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString(strings.ToUpper(rep.Project) + " - BUILD REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Date: %s\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Node Version: %s\n", rep.Versions["node"])
	fmt.Fprintf(&b, "NPM Version: %s\n", rep.Versions["npm"])

	b.WriteString("\nCOMPONENT STATUS:\n")
	for _, c := range rep.Components {
		glyph := ui.GlyphFailure
		if c.Present {
			glyph = ui.GlyphSuccess
		}
		fmt.Fprintf(&b, "  %s %s\n", glyph, c.Name)
	}

	b.WriteString("\nNEXT STEPS:\n")
	b.WriteString(rep.NextSteps + "\n")
	return b.String()
}
