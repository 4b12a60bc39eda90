package workflowengine

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "workflow.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
version = 1
default = "document-standard"

[[routes]]
workflow = "document-expedited"
min_priority = 80

[[routes]]
workflow = "contract-review"
min_priority = 0
doc_types = ["contract", "lease", "agreement"]
`)

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}

	if got := profile.Resolve(95, ""); got != "document-expedited" {
		t.Fatalf("Resolve(95) = %q", got)
	}
	if got := profile.Resolve(40, "lease"); got != "contract-review" {
		t.Fatalf("Resolve(40, lease) = %q", got)
	}
	if got := profile.Resolve(40, ""); got != "document-standard" {
		t.Fatalf("Resolve(40) = %q", got)
	}
}

func TestLoadProfileRejectsMissingDefault(t *testing.T) {
	path := writeProfile(t, "version = 1\n")
	if _, err := LoadProfile(path); err == nil {
		t.Fatalf("LoadProfile() expected error for missing default")
	}
}

func TestLoadProfileRejectsWrongVersion(t *testing.T) {
	path := writeProfile(t, "version = 3\ndefault = \"document-standard\"\n")
	if _, err := LoadProfile(path); err == nil {
		t.Fatalf("LoadProfile() expected error for wrong version")
	}
}
