package envfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestBootstrapCopiesTemplate(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, ".env")
	template := filepath.Join(dir, ".env.example")
	content := "# API credentials\nAQI_API_KEY=\nWEATHER_API_KEY=\nPORT=3001\n"
	if err := os.WriteFile(template, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	created, err := Bootstrap(live, template)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !created {
		t.Fatal("expected created = true")
	}
	got, err := os.ReadFile(live)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("live file content = %q, want template content %q", got, content)
	}
}

func TestBootstrapNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, ".env")
	template := filepath.Join(dir, ".env.example")
	if err := os.WriteFile(live, []byte("API_KEY=real-secret\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(template, []byte("API_KEY=\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	created, err := Bootstrap(live, template)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if created {
		t.Error("Bootstrap reported created for an existing live file")
	}
	got, err := os.ReadFile(live)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "API_KEY=real-secret\n" {
		t.Errorf("live file was modified: %q", got)
	}
}

func TestBootstrapMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, ".env")

	created, err := Bootstrap(live, filepath.Join(dir, ".env.example"))
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if created {
		t.Error("expected created = false with no template")
	}
	if _, err := os.Stat(live); !os.IsNotExist(err) {
		t.Error("live file must not be created without a template")
	}
}

func TestMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "AQI_API_KEY=\nWEATHER_API_KEY=abc123\nPORT=3001\nSENTRY_DSN=\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got := MissingValues(path)
	want := []string{"AQI_API_KEY", "SENTRY_DSN"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MissingValues = %v, want %v", got, want)
	}
}

func TestMissingValuesAbsentFile(t *testing.T) {
	if got := MissingValues(filepath.Join(t.TempDir(), ".env")); got != nil {
		t.Errorf("MissingValues on absent file = %v, want nil", got)
	}
}

func TestMissingValuesAllSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("A=1\nB=two\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := MissingValues(path); len(got) != 0 {
		t.Errorf("MissingValues = %v, want empty", got)
	}
}
