package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readEnv(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading settings file: %v", err)
	}
	var doc struct {
		Env map[string]string `json:"env"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parsing settings file: %v", err)
	}
	return doc.Env
}

func TestMerge_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	out := Merge(MergeOptions{SettingsPath: path, GRPCPort: 4317})
	if out.Result != MergeSuccess {
		t.Fatalf("expected MergeSuccess, got %v (err=%v)", out.Result, out.Err)
	}

	env := readEnv(t, path)
	if env["OTEL_EXPORTER_OTLP_ENDPOINT"] != "http://localhost:4317" {
		t.Errorf("unexpected endpoint: %q", env["OTEL_EXPORTER_OTLP_ENDPOINT"])
	}
	if env["OTEL_METRICS_EXPORTER"] != "otlp" {
		t.Errorf("unexpected metrics exporter: %q", env["OTEL_METRICS_EXPORTER"])
	}
}

func TestMerge_AddsMissingKeysPreservesOthers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	existing := `{
  "theme": "dark",
  "env": {
    "EDITOR_FLAG": "on"
  }
}
`
	if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	out := Merge(MergeOptions{SettingsPath: path, GRPCPort: 4317})
	if out.Result != MergeSuccess {
		t.Fatalf("expected MergeSuccess, got %v (err=%v)", out.Result, out.Err)
	}

	env := readEnv(t, path)
	if env["EDITOR_FLAG"] != "on" {
		t.Errorf("pre-existing env key lost: %q", env["EDITOR_FLAG"])
	}
	if env["OTEL_LOGS_EXPORTER"] != "otlp" {
		t.Errorf("required key not added: %q", env["OTEL_LOGS_EXPORTER"])
	}

	data, _ := os.ReadFile(path)
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["theme"] != "dark" {
		t.Errorf("top-level key lost: %v", doc["theme"])
	}
}

func TestMerge_AlreadyConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	if out := Merge(MergeOptions{SettingsPath: path, GRPCPort: 4317}); out.Result != MergeSuccess {
		t.Fatalf("setup merge failed: %v", out.Result)
	}

	out := Merge(MergeOptions{SettingsPath: path, GRPCPort: 4317})
	if out.Result != MergeAlreadyConfigured {
		t.Errorf("expected MergeAlreadyConfigured, got %v", out.Result)
	}
}

func TestMerge_DoesNotOverwriteDifferingValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	existing := `{"env": {"OTEL_EXPORTER_OTLP_ENDPOINT": "http://remote:9999"}}`
	if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	out := Merge(MergeOptions{SettingsPath: path, GRPCPort: 4317})
	if out.Result != MergeSuccess {
		t.Fatalf("expected MergeSuccess, got %v (err=%v)", out.Result, out.Err)
	}
	if len(out.Warnings) == 0 {
		t.Error("expected a warning about the differing endpoint")
	}

	env := readEnv(t, path)
	if env["OTEL_EXPORTER_OTLP_ENDPOINT"] != "http://remote:9999" {
		t.Errorf("differing value was overwritten: %q", env["OTEL_EXPORTER_OTLP_ENDPOINT"])
	}
}

func TestMerge_InteractiveConflictNeedsConfirmation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	existing := `{"env": {"OTEL_EXPORTER_OTLP_ENDPOINT": "http://remote:9999"}}`
	if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	out := Merge(MergeOptions{SettingsPath: path, GRPCPort: 4317, Interactive: true})
	if out.Result != MergeNeedsConfirmation {
		t.Fatalf("expected MergeNeedsConfirmation, got %v", out.Result)
	}

	// The file must be untouched.
	env := readEnv(t, path)
	if _, added := env["OTEL_METRICS_EXPORTER"]; added {
		t.Error("expected no write in interactive conflict")
	}
}

func TestMerge_FixPortOnlyUpdatesEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	existing := `{"env": {"OTEL_EXPORTER_OTLP_ENDPOINT": "http://localhost:9999"}}`
	if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	out := Merge(MergeOptions{SettingsPath: path, GRPCPort: 5317, FixPortOnly: true})
	if out.Result != MergeSuccess {
		t.Fatalf("expected MergeSuccess, got %v (err=%v)", out.Result, out.Err)
	}

	env := readEnv(t, path)
	if env["OTEL_EXPORTER_OTLP_ENDPOINT"] != "http://localhost:5317" {
		t.Errorf("endpoint not updated: %q", env["OTEL_EXPORTER_OTLP_ENDPOINT"])
	}
	if _, added := env["OTEL_METRICS_EXPORTER"]; added {
		t.Error("FixPortOnly must not add other keys")
	}
}

func TestMerge_MalformedJSONBackedUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	out := Merge(MergeOptions{SettingsPath: path, GRPCPort: 4317})
	if out.Result != MergeError {
		t.Fatalf("expected MergeError, got %v", out.Result)
	}

	bak, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	if string(bak) != "{not json" {
		t.Errorf("backup content mismatch: %q", bak)
	}
}

func TestMerge_PreservesIndentation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	existing := "{\n\t\"env\": {\n\t\t\"EDITOR_FLAG\": \"on\"\n\t}\n}\n"
	if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	out := Merge(MergeOptions{SettingsPath: path, GRPCPort: 4317})
	if out.Result != MergeSuccess {
		t.Fatalf("expected MergeSuccess, got %v (err=%v)", out.Result, out.Err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n\t\"env\"") {
		t.Errorf("tab indentation not preserved:\n%s", data)
	}
}

func TestMerge_DefaultPortIs4317(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	out := Merge(MergeOptions{SettingsPath: path})
	if out.Result != MergeSuccess {
		t.Fatalf("expected MergeSuccess, got %v (err=%v)", out.Result, out.Err)
	}

	env := readEnv(t, path)
	if env["OTEL_EXPORTER_OTLP_ENDPOINT"] != "http://localhost:4317" {
		t.Errorf("expected default port endpoint, got %q", env["OTEL_EXPORTER_OTLP_ENDPOINT"])
	}
}

func TestDetectIndent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"two spaces", "{\n  \"a\": 1\n}", "  "},
		{"four spaces", "{\n    \"a\": 1\n}", "    "},
		{"tab", "{\n\t\"a\": 1\n}", "\t"},
		{"compact defaults", `{"a":1}`, "  "},
		{"empty defaults", "", "  "},
	}
	for _, tc := range tests {
		if got := detectIndent([]byte(tc.data)); got != tc.want {
			t.Errorf("%s: detectIndent = %q, want %q", tc.name, got, tc.want)
		}
	}
}
