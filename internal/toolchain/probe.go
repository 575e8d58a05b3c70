package toolchain

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasnoah/buildfix/internal/command"
)

// MinNodeMajor is the oldest Node.js major release the build pipeline
// supports. Older runtimes miss language features the frontend toolchain
// assumes.
const MinNodeMajor = 16

var versionRe = regexp.MustCompile(`v?(\d+)(?:\.\d+)*`)

// Version describes one installed tool.
type Version struct {
	Name  string `json:"name"`
	Raw   string `json:"raw"`
	Major int    `json:"major"`
}

func (v *Version) String() string {
	return v.Raw
}

// ParseVersion extracts a Version from tool output such as "v18.17.0" or
// "9.6.7". Only the first line is considered.
func ParseVersion(name, output string) (*Version, error) {
	line := strings.TrimSpace(output)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	m := versionRe.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("no version number in %q", line)
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("parse major version %q: %w", m[1], err)
	}
	return &Version{Name: name, Raw: line, Major: major}, nil
}

// Status is the outcome of one environment probe. Problems is empty when the
// environment can build the project.
type Status struct {
	Node     *Version
	NPM      *Version
	Problems []string
}

// Supported reports whether the probed toolchain meets the pipeline's
// requirements.
func (s *Status) Supported() bool {
	return len(s.Problems) == 0
}

// Prober verifies that the Node.js toolchain on PATH can build the project.
type Prober struct {
	run      command.Runner
	minMajor int
}

// NewProber returns a Prober using the given runner. minMajor <= 0 selects
// MinNodeMajor.
func NewProber(run command.Runner, minMajor int) *Prober {
	if minMajor <= 0 {
		minMajor = MinNodeMajor
	}
	return &Prober{run: run, minMajor: minMajor}
}

// Probe checks node and npm and reports whether the environment is usable.
// Both tools are always probed so Status can list every problem at once.
func (p *Prober) Probe(ctx context.Context) (*Status, bool) {
	st := &Status{}

	if v, err := p.version(ctx, "node"); err != nil {
		st.Problems = append(st.Problems, "node.js is not installed or not on PATH")
	} else {
		st.Node = v
		if v.Major < p.minMajor {
			st.Problems = append(st.Problems,
				fmt.Sprintf("node.js %d+ required, found %s", p.minMajor, v.Raw))
		}
	}

	if v, err := p.version(ctx, "npm"); err != nil {
		st.Problems = append(st.Problems, "npm is not installed or not on PATH")
	} else {
		st.NPM = v
	}

	return st, st.Supported()
}

// Versions re-probes the toolchain for display, mapping absent tools to
// "not found". Used by the status report header.
func (p *Prober) Versions(ctx context.Context) map[string]string {
	st, _ := p.Probe(ctx)
	vs := map[string]string{"node": "not found", "npm": "not found"}
	if st.Node != nil {
		vs["node"] = st.Node.Raw
	}
	if st.NPM != nil {
		vs["npm"] = st.NPM.Raw
	}
	return vs
}

func (p *Prober) version(ctx context.Context, tool string) (*Version, error) {
	out := p.run.Run(ctx, command.Opts{Command: tool + " --version"})
	if !out.OK() {
		return nil, fmt.Errorf("%s --version: %s", tool, out.Detail())
	}
	return ParseVersion(tool, out.Stdout)
}
