package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestParseDotEnv_IgnoresNoise(t *testing.T) {
	values, err := parseDotEnv(strings.NewReader(`
# comment

A=one
export B=two
C="three # not a comment"
D=four # trailing
E='hello world'
`))
	if err != nil {
		t.Fatalf("parseDotEnv: %v", err)
	}

	want := map[string]string{
		"A": "one",
		"B": "two",
		"C": "three # not a comment",
		"D": "four",
		"E": "hello world",
	}
	if len(values) != len(want) {
		t.Fatalf("got %d values, want %d: %v", len(values), len(want), values)
	}
	for k, v := range want {
		if values[k] != v {
			t.Fatalf("%s=%q, want %q", k, values[k], v)
		}
	}
}

func TestParseDotEnv_RejectsMalformedLine(t *testing.T) {
	if _, err := parseDotEnv(strings.NewReader("GOOD=1\nBROKEN\n")); err == nil {
		t.Fatalf("expected error for line without '='")
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")
	t.Setenv("FILL", "")

	path := writeDotEnv(t, "KEEP=fromfile\nFILL=fromfile\n")
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("KEEP"); got != "already" {
		t.Fatalf("KEEP=%q, want %q", got, "already")
	}
	if got := os.Getenv("FILL"); got != "fromfile" {
		t.Fatalf("FILL=%q, want %q", got, "fromfile")
	}
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
}
