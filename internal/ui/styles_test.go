package ui

import (
	"strings"
	"testing"
)

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name            string
		passed, skipped bool
		wantGlyph       string
	}{
		{"passed", true, false, GlyphSuccess},
		{"failed", false, false, GlyphFailure},
		{"skipped", false, true, GlyphSkipped},
	}
	for _, tt := range tests {
		got := StatusLine("Frontend Build", tt.passed, tt.skipped)
		if !strings.Contains(got, tt.wantGlyph) {
			t.Errorf("StatusLine(%s) = %q, want glyph %q", tt.name, got, tt.wantGlyph)
		}
		if !strings.Contains(got, "Frontend Build") {
			t.Errorf("StatusLine(%s) = %q, missing stage name", tt.name, got)
		}
	}
}

func TestHeaderRules(t *testing.T) {
	got := Header("Air Quality App Build")
	if !strings.Contains(got, strings.Repeat("=", 60)) {
		t.Errorf("Header missing 60-column rule: %q", got)
	}
	if !strings.Contains(got, "Air Quality App Build") {
		t.Errorf("Header missing title: %q", got)
	}
}

func TestBannerListsPipelineSteps(t *testing.T) {
	out := Banner("Air Quality Monitoring App")
	if !strings.Contains(out, "AIR QUALITY MONITORING APP - BUILD & FIX") {
		t.Errorf("banner missing upper-cased title: %q", out)
	}
	for _, step := range []string{"1. Install", "2. Fix", "3. Build", "4. Report"} {
		if !strings.Contains(out, step) {
			t.Errorf("banner missing step %q", step)
		}
	}
}

func TestGlyphPrefixes(t *testing.T) {
	if got := Success("done"); !strings.Contains(got, GlyphSuccess+" done") {
		t.Errorf("Success = %q", got)
	}
	if got := Failure("broken"); !strings.Contains(got, GlyphFailure+" broken") {
		t.Errorf("Failure = %q", got)
	}
	if got := Warn("careful"); !strings.Contains(got, GlyphWarning+" careful") {
		t.Errorf("Warn = %q", got)
	}
	if got := Info("working"); !strings.Contains(got, GlyphInfo+" working") {
		t.Errorf("Info = %q", got)
	}
}
