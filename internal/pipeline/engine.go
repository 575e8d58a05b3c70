// Package pipeline executes the build stages in order: environment probe,
// dependency install, tsconfig patch, component inventory, frontend build
// with one remediated retry, backend env bootstrap, and the status report.
// A failed stage is recorded and the pipeline moves on; only an unusable
// toolchain aborts the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasnoah/buildfix/internal/command"
	"github.com/lucasnoah/buildfix/internal/config"
	"github.com/lucasnoah/buildfix/internal/envfile"
	"github.com/lucasnoah/buildfix/internal/fsx"
	"github.com/lucasnoah/buildfix/internal/history"
	"github.com/lucasnoah/buildfix/internal/report"
	"github.com/lucasnoah/buildfix/internal/toolchain"
	"github.com/lucasnoah/buildfix/internal/tsconfig"
	"github.com/lucasnoah/buildfix/internal/ui"
)

// Stage names as recorded in results and history.
const (
	StageEnvironment = "environment"
	StageInstall     = "install"
	StageConfigure   = "tsconfig"
	StageInventory   = "inventory"
	StageBuild       = "build"
	StageBackendEnv  = "backend-env"
	StageReport      = "report"
)

// ErrEnvironment is returned when the toolchain probe fails. Nothing is
// installed or built after it.
var ErrEnvironment = errors.New("environment not supported")

// Engine drives the stage pipeline for one project.
type Engine struct {
	root     string
	cfg      *config.Config
	run      command.Runner
	prober   *toolchain.Prober
	reporter *report.Reporter
	hist     *history.DB // nil = history disabled
	progress io.Writer   // live progress output; nil = silent
}

// NewEngine creates a pipeline engine for the project rooted at root.
func NewEngine(root string, cfg *config.Config, run command.Runner, prober *toolchain.Prober, reporter *report.Reporter) *Engine {
	return &Engine{
		root:     root,
		cfg:      cfg,
		run:      run,
		prober:   prober,
		reporter: reporter,
	}
}

// SetProgress sets a writer for live progress output (e.g. os.Stdout).
func (e *Engine) SetProgress(w io.Writer) {
	e.progress = w
}

// SetHistory attaches a run-history database. All history writes are
// best-effort.
func (e *Engine) SetHistory(h *history.DB) {
	e.hist = h
}

// logf prints a progress line if a progress writer is configured.
func (e *Engine) logf(format string, args ...interface{}) {
	if e.progress != nil {
		fmt.Fprintf(e.progress, "  → "+format+"\n", args...)
	}
}

// logLine prints a pre-styled status line.
func (e *Engine) logLine(line string) {
	if e.progress != nil {
		fmt.Fprintf(e.progress, "  %s\n", line)
	}
}

// header prints a stage banner.
func (e *Engine) header(text string) {
	if e.progress != nil {
		fmt.Fprintf(e.progress, "\n%s\n", ui.Header(text))
	}
}

// RunOpts configures a pipeline run.
type RunOpts struct {
	SkipInstall bool // skip the install stage
	FixOnly     bool // apply configuration fixes without building
	Verbose     bool // stream install/build output live
}

// StageResult captures the outcome of one stage.
type StageResult struct {
	Stage    string        `json:"stage"`
	Passed   bool          `json:"passed"`
	Skipped  bool          `json:"skipped,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RunResult captures the outcome of a full pipeline run. Verdict comes from
// the report's disk check, not from stage bookkeeping.
type RunResult struct {
	Stages  []StageResult  `json:"stages"`
	Report  *report.Report `json:"report"`
	Verdict bool           `json:"verdict"`
}

// StagesPassed reports whether every executed (non-skipped) stage passed.
// Informational only; the run verdict is Verdict.
func (r *RunResult) StagesPassed() bool {
	for _, s := range r.Stages {
		if !s.Skipped && !s.Passed {
			return false
		}
	}
	return true
}

// Run executes the full pipeline. An unusable toolchain returns the partial
// result alongside ErrEnvironment; every other failure is recorded in the
// stage results and the run continues to the report.
func (e *Engine) Run(ctx context.Context, opts RunOpts) (*RunResult, error) {
	result := &RunResult{}

	e.header("Checking Node.js Environment")
	start := time.Now()
	st, supported := e.prober.Probe(ctx)

	var runID int64
	if e.hist != nil {
		var node, npm string
		if st.Node != nil {
			node = st.Node.Raw
		}
		if st.NPM != nil {
			npm = st.NPM.Raw
		}
		id, err := e.hist.BeginRun(node, npm, opts.FixOnly, opts.SkipInstall)
		if err != nil {
			e.logf("history unavailable: %v", err)
		} else {
			runID = id
		}
	}

	if st.Node != nil {
		e.logLine(ui.Success("node " + st.Node.Raw))
	}
	if st.NPM != nil {
		e.logLine(ui.Success("npm " + st.NPM.Raw))
	}
	for _, p := range st.Problems {
		e.logLine(ui.Failure(p))
	}

	envStage := StageResult{Stage: StageEnvironment, Passed: supported, Duration: time.Since(start)}
	if !supported {
		envStage.Detail = strings.Join(st.Problems, "; ")
		e.record(result, runID, envStage)
		e.finish(runID, false)
		return result, fmt.Errorf("%w: %s", ErrEnvironment, envStage.Detail)
	}
	e.record(result, runID, envStage)

	e.record(result, runID, e.runInstall(ctx, opts))
	e.record(result, runID, e.runConfigure())
	e.record(result, runID, e.runInventory())
	e.record(result, runID, e.runBuild(ctx, opts))
	e.record(result, runID, e.runBackendEnv())

	repStage, rep := e.runReport(ctx)
	e.record(result, runID, repStage)
	result.Report = rep
	result.Verdict = rep.BuildReady

	e.finish(runID, result.Verdict)
	return result, nil
}

// record appends a stage result and logs it to history best-effort.
func (e *Engine) record(res *RunResult, runID int64, sr StageResult) {
	res.Stages = append(res.Stages, sr)
	if e.hist != nil && runID > 0 {
		_ = e.hist.LogStage(runID, sr.Stage, sr.Passed, sr.Skipped, int(sr.Duration.Milliseconds()), sr.Detail)
	}
}

func (e *Engine) finish(runID int64, verdict bool) {
	if e.hist != nil && runID > 0 {
		_ = e.hist.FinishRun(runID, verdict)
	}
}

// runInstall installs backend then frontend dependencies. A missing frontend
// tree downgrades to a warning; a failed install fails the stage but the
// pipeline continues.
func (e *Engine) runInstall(ctx context.Context, opts RunOpts) StageResult {
	e.header("Installing Dependencies")
	start := time.Now()
	sr := StageResult{Stage: StageInstall, Passed: true}

	if opts.SkipInstall {
		e.logf("skipped (--skip-install)")
		sr.Passed = false
		sr.Skipped = true
		sr.Detail = "skipped by flag"
		sr.Duration = time.Since(start)
		return sr
	}

	timeout := e.cfg.Commands.Timeout()
	var details []string

	e.logf("installing backend dependencies...")
	backendDir := filepath.Join(e.root, e.cfg.Backend.Dir)
	out := e.run.Run(ctx, command.Opts{
		Command: e.cfg.Commands.Install,
		Dir:     backendDir,
		Stream:  opts.Verbose,
		Timeout: timeout,
	})
	if out.OK() {
		e.logLine(ui.Success("backend dependencies installed"))
	} else {
		sr.Passed = false
		details = append(details, "backend install: "+out.Detail())
		e.logLine(ui.Failure("backend install failed"))
	}

	frontendDir := filepath.Join(e.root, e.cfg.Frontend.Dir)
	if !fsx.IsDir(frontendDir) {
		details = append(details, "frontend directory not found")
		e.logLine(ui.Warn("frontend directory not found, skipping frontend install"))
	} else {
		e.logf("installing frontend dependencies...")
		out := e.run.Run(ctx, command.Opts{
			Command: e.cfg.Commands.Install,
			Dir:     frontendDir,
			Stream:  opts.Verbose,
			Timeout: timeout,
		})
		if out.OK() {
			e.logLine(ui.Success("frontend dependencies installed"))
		} else {
			sr.Passed = false
			details = append(details, "frontend install: "+out.Detail())
			e.logLine(ui.Failure("frontend install failed"))
		}
	}

	sr.Detail = strings.Join(details, "; ")
	sr.Duration = time.Since(start)
	return sr
}

// runConfigure patches the frontend tsconfig. A missing file passes with a
// warning; parse and write errors fail the stage.
func (e *Engine) runConfigure() StageResult {
	e.header("Fixing Frontend Configuration")
	start := time.Now()
	sr := StageResult{Stage: StageConfigure, Passed: true}

	path := filepath.Join(e.root, e.cfg.Frontend.TSConfig)
	changed, err := tsconfig.Patch(path)
	switch {
	case err != nil:
		sr.Passed = false
		sr.Detail = err.Error()
		e.logLine(ui.Failure("tsconfig patch failed: " + err.Error()))
	case !fsx.Exists(path):
		sr.Detail = "no tsconfig.json found"
		e.logLine(ui.Warn(e.cfg.Frontend.TSConfig + " not found, skipping"))
	case changed:
		sr.Detail = "compiler options updated"
		e.logLine(ui.Success("updated " + e.cfg.Frontend.TSConfig))
	default:
		sr.Detail = "already configured"
		e.logLine(ui.Success(e.cfg.Frontend.TSConfig + " already configured"))
	}

	sr.Duration = time.Since(start)
	return sr
}

// runInventory counts configured component files on disk. Informational:
// the stage always passes.
func (e *Engine) runInventory() StageResult {
	e.header("Checking Frontend Components")
	start := time.Now()

	present := 0
	for _, rel := range e.cfg.Frontend.Components {
		if fsx.Exists(filepath.Join(e.root, rel)) {
			present++
		} else {
			e.logLine(ui.Warn("missing: " + rel))
		}
	}
	detail := fmt.Sprintf("%d of %d component files present", present, len(e.cfg.Frontend.Components))
	e.logLine(ui.Info(detail))

	return StageResult{Stage: StageInventory, Passed: true, Detail: detail, Duration: time.Since(start)}
}

// runBuild type-checks and builds the frontend, retrying once after the
// remediation install, then swaps the build output into the deploy dir.
func (e *Engine) runBuild(ctx context.Context, opts RunOpts) StageResult {
	e.header("Building Frontend")
	start := time.Now()
	sr := StageResult{Stage: StageBuild}

	if opts.FixOnly {
		e.logf("skipped (--fix-only)")
		sr.Skipped = true
		sr.Detail = "skipped by flag"
		sr.Duration = time.Since(start)
		return sr
	}

	frontendDir := filepath.Join(e.root, e.cfg.Frontend.Dir)
	if !fsx.IsDir(frontendDir) {
		sr.Detail = "frontend directory not found"
		e.logLine(ui.Failure(sr.Detail))
		sr.Duration = time.Since(start)
		return sr
	}

	timeout := e.cfg.Commands.Timeout()

	e.logf("running type check...")
	if out := e.run.Run(ctx, command.Opts{
		Command: e.cfg.Commands.TypeCheck,
		Dir:     frontendDir,
		Timeout: timeout,
	}); !out.OK() {
		e.logLine(ui.Warn("type check found issues, attempting build anyway"))
	}

	e.logf("building frontend...")
	out := e.run.Run(ctx, command.Opts{
		Command: e.cfg.Commands.Build,
		Dir:     frontendDir,
		Stream:  opts.Verbose,
		Timeout: timeout,
	})
	if !out.OK() {
		e.logLine(ui.Warn("build failed, attempting to fix..."))
		if fix := e.run.Run(ctx, command.Opts{
			Command: e.cfg.Commands.Remediation,
			Dir:     frontendDir,
			Timeout: timeout,
		}); !fix.OK() {
			e.logf("remediation install failed: %s", fix.Detail())
		}
		out = e.run.Run(ctx, command.Opts{
			Command: e.cfg.Commands.Build,
			Dir:     frontendDir,
			Stream:  opts.Verbose,
			Timeout: timeout,
		})
	}
	if !out.OK() {
		sr.Detail = out.Detail()
		e.logLine(ui.Failure("frontend build failed"))
		sr.Duration = time.Since(start)
		return sr
	}

	if err := e.deploy(); err != nil {
		sr.Detail = "deploy: " + err.Error()
		e.logLine(ui.Failure(sr.Detail))
		sr.Duration = time.Since(start)
		return sr
	}

	sr.Passed = true
	sr.Detail = "build output deployed to " + e.cfg.Frontend.DeployDir
	e.logLine(ui.Success("frontend built successfully"))
	sr.Duration = time.Since(start)
	return sr
}

// runBackendEnv creates the live env file from its template when absent.
// An existing file is never touched. The stage always passes: a bootstrap
// error is recorded as detail and the report's disk check has the last word.
func (e *Engine) runBackendEnv() StageResult {
	e.header("Checking Backend Configuration")
	start := time.Now()
	sr := StageResult{Stage: StageBackendEnv, Passed: true}

	live := filepath.Join(e.root, e.cfg.Backend.EnvFile)
	template := filepath.Join(e.root, e.cfg.Backend.EnvTemplate)
	created, err := envfile.Bootstrap(live, template)
	switch {
	case err != nil:
		sr.Detail = err.Error()
		e.logLine(ui.Warn("env bootstrap failed: " + err.Error()))
	case created:
		sr.Detail = fmt.Sprintf("created %s from %s", e.cfg.Backend.EnvFile, e.cfg.Backend.EnvTemplate)
		e.logLine(ui.Success(sr.Detail))
	case fsx.Exists(live):
		sr.Detail = e.cfg.Backend.EnvFile + " already present"
		e.logLine(ui.Success(sr.Detail))
	default:
		sr.Detail = "no " + e.cfg.Backend.EnvTemplate + " found"
		e.logLine(ui.Warn(sr.Detail))
	}

	sr.Duration = time.Since(start)
	return sr
}

// runReport generates and persists the status report. The report's disk
// check is the run verdict even when persisting fails.
func (e *Engine) runReport(ctx context.Context) (StageResult, *report.Report) {
	e.header("Generating Build Report")
	start := time.Now()
	sr := StageResult{Stage: StageReport, Passed: true}

	rep := e.reporter.Generate(ctx)
	if err := e.reporter.Write(rep); err != nil {
		sr.Passed = false
		sr.Detail = err.Error()
		e.logLine(ui.Failure("report: " + err.Error()))
	} else {
		sr.Detail = "report written to " + e.cfg.Report.File
		e.logLine(ui.Success(sr.Detail))
	}

	sr.Duration = time.Since(start)
	return sr, rep
}
