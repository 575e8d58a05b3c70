package toolchain

import (
	"context"
	"strings"
	"testing"

	"github.com/lucasnoah/buildfix/internal/command"
)

// fakeRunner maps command lines to canned outcomes and records every call.
type fakeRunner struct {
	outcomes map[string]*command.Outcome
	calls    []string
}

func (f *fakeRunner) Run(_ context.Context, opts command.Opts) *command.Outcome {
	f.calls = append(f.calls, opts.Command)
	if o, ok := f.outcomes[opts.Command]; ok {
		return o
	}
	return &command.Outcome{ExitCode: -1, Err: "sh: command not found"}
}

func ok(stdout string) *command.Outcome {
	return &command.Outcome{ExitCode: 0, Stdout: stdout}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		output    string
		wantRaw   string
		wantMajor int
	}{
		{"v18.17.0\n", "v18.17.0", 18},
		{"9.6.7\n", "9.6.7", 9},
		{"v16.0.0", "v16.0.0", 16},
		{"v20.11.1\nsome trailing noise", "v20.11.1", 20},
	}
	for _, tt := range tests {
		v, err := ParseVersion("node", tt.output)
		if err != nil {
			t.Errorf("ParseVersion(%q) error: %v", tt.output, err)
			continue
		}
		if v.Raw != tt.wantRaw {
			t.Errorf("ParseVersion(%q).Raw = %q, want %q", tt.output, v.Raw, tt.wantRaw)
		}
		if v.Major != tt.wantMajor {
			t.Errorf("ParseVersion(%q).Major = %d, want %d", tt.output, v.Major, tt.wantMajor)
		}
	}
}

func TestParseVersionRejectsGarbage(t *testing.T) {
	if _, err := ParseVersion("node", "command not found"); err == nil {
		t.Error("expected error for output without a version number")
	}
}

func TestProbeSupported(t *testing.T) {
	run := &fakeRunner{outcomes: map[string]*command.Outcome{
		"node --version": ok("v18.17.0\n"),
		"npm --version":  ok("9.6.7\n"),
	}}
	p := NewProber(run, 0)

	st, supported := p.Probe(context.Background())
	if !supported {
		t.Fatalf("expected supported environment, problems: %v", st.Problems)
	}
	if st.Node == nil || st.Node.Major != 18 {
		t.Errorf("node version = %+v, want major 18", st.Node)
	}
	if st.NPM == nil || st.NPM.Major != 9 {
		t.Errorf("npm version = %+v, want major 9", st.NPM)
	}
}

func TestProbeRejectsOldNode(t *testing.T) {
	run := &fakeRunner{outcomes: map[string]*command.Outcome{
		"node --version": ok("v14.21.3\n"),
		"npm --version":  ok("6.14.18\n"),
	}}
	p := NewProber(run, 0)

	st, supported := p.Probe(context.Background())
	if supported {
		t.Fatal("node 14 must not be supported")
	}
	if len(st.Problems) != 1 || !strings.Contains(st.Problems[0], "16+") {
		t.Errorf("problems = %v, want single minimum-version problem", st.Problems)
	}
	if st.Node == nil || st.Node.Raw != "v14.21.3" {
		t.Errorf("status should still carry the probed version, got %+v", st.Node)
	}
}

func TestProbeMissingNode(t *testing.T) {
	run := &fakeRunner{outcomes: map[string]*command.Outcome{
		"npm --version": ok("9.6.7\n"),
	}}
	p := NewProber(run, 0)

	st, supported := p.Probe(context.Background())
	if supported {
		t.Fatal("missing node must not be supported")
	}
	if st.Node != nil {
		t.Errorf("node version should be nil, got %+v", st.Node)
	}
	if st.NPM == nil {
		t.Error("npm should still be probed when node is missing")
	}
}

func TestProbeMissingNPM(t *testing.T) {
	run := &fakeRunner{outcomes: map[string]*command.Outcome{
		"node --version": ok("v18.17.0\n"),
	}}
	p := NewProber(run, 0)

	_, supported := p.Probe(context.Background())
	if supported {
		t.Fatal("missing npm must not be supported")
	}
}

func TestVersionsMapsAbsentTools(t *testing.T) {
	run := &fakeRunner{outcomes: map[string]*command.Outcome{
		"node --version": ok("v18.17.0\n"),
	}}
	p := NewProber(run, 0)

	vs := p.Versions(context.Background())
	if vs["node"] != "v18.17.0" {
		t.Errorf("node = %q, want v18.17.0", vs["node"])
	}
	if vs["npm"] != "not found" {
		t.Errorf("npm = %q, want %q", vs["npm"], "not found")
	}
}

func TestProbeCustomMinimum(t *testing.T) {
	run := &fakeRunner{outcomes: map[string]*command.Outcome{
		"node --version": ok("v18.17.0\n"),
		"npm --version":  ok("9.6.7\n"),
	}}
	p := NewProber(run, 20)

	if _, supported := p.Probe(context.Background()); supported {
		t.Error("node 18 must fail a configured minimum of 20")
	}
}
