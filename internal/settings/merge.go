package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// defaultSettingsPath returns the default location of the editor AI
// plugin's settings.json.
func defaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ai-assist", "settings.json")
}

// Merge reads the plugin settings.json, merges the required OTel
// environment variables into its "env" block, and writes the file back
// atomically (temp file + rename). The original indentation style is
// preserved.
//
// A missing file is created with just the required variables. Malformed
// JSON is backed up to a .bak file and reported as an error rather than
// clobbered. Keys that already hold a different value are not
// overwritten unless FixPortOnly forces the endpoint; in interactive
// mode such conflicts return MergeNeedsConfirmation without writing.
func Merge(opts MergeOptions) MergeOutput {
	path := opts.SettingsPath
	if path == "" {
		path = defaultSettingsPath()
	}

	port := opts.GRPCPort
	if port == 0 {
		port = 4317
	}

	required := RequiredOTelEnv(port)
	if opts.FixPortOnly {
		required = map[string]string{
			"OTEL_EXPORTER_OTLP_ENDPOINT": required["OTEL_EXPORTER_OTLP_ENDPOINT"],
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return createSettingsFile(path, required)
	case errors.Is(err, fs.ErrPermission):
		return MergeOutput{
			Result: MergeError,
			Err:    fmt.Errorf("permission denied reading %s", path),
		}
	case err != nil:
		return MergeOutput{
			Result: MergeError,
			Err:    fmt.Errorf("reading settings file: %w", err),
		}
	}

	indent := detectIndent(data)

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return backupMalformed(path, data)
	}

	env := envBlock(doc)
	messages, warnings, state := applyRequired(env, required, opts)

	switch state {
	case mergeStateConflict:
		return MergeOutput{
			Result:   MergeNeedsConfirmation,
			Messages: messages,
			Warnings: warnings,
		}
	case mergeStateClean:
		return MergeOutput{
			Result:   MergeAlreadyConfigured,
			Messages: []string{"All OTel environment variables are already configured correctly"},
		}
	}

	if err := writeSettingsAtomic(path, doc, indent); err != nil {
		return MergeOutput{
			Result: MergeError,
			Err:    fmt.Errorf("writing settings file: %w", err),
		}
	}

	return MergeOutput{
		Result:   MergeSuccess,
		Messages: messages,
		Warnings: warnings,
	}
}

type mergeState int

const (
	mergeStateClean mergeState = iota
	mergeStateChanged
	mergeStateConflict
)

// envBlock returns the "env" object of the settings document, creating
// or replacing it when absent or not an object.
func envBlock(doc map[string]any) map[string]any {
	if env, ok := doc["env"].(map[string]any); ok {
		return env
	}
	env := make(map[string]any)
	doc["env"] = env
	return env
}

// applyRequired merges the required variables into env. Keys are
// processed in sorted order so the output is deterministic.
func applyRequired(env map[string]any, required map[string]string, opts MergeOptions) (messages, warnings []string, state mergeState) {
	keys := make([]string, 0, len(required))
	for k := range required {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		want := required[key]
		existing, present := env[key]

		if !present {
			env[key] = want
			if state == mergeStateClean {
				state = mergeStateChanged
			}
			messages = append(messages, fmt.Sprintf("Added %s=%s", key, want))
			continue
		}

		if current, _ := existing.(string); current == want {
			continue
		}
		current, _ := existing.(string)

		switch {
		case opts.FixPortOnly:
			env[key] = want
			if state == mergeStateClean {
				state = mergeStateChanged
			}
			messages = append(messages, fmt.Sprintf("Updated %s from %q to %q", key, current, want))
		case opts.Interactive:
			state = mergeStateConflict
			warnings = append(warnings, fmt.Sprintf("%s is set to %q, expected %q", key, current, want))
		default:
			if state == mergeStateClean {
				state = mergeStateChanged
			}
			warnings = append(warnings, fmt.Sprintf(
				"Warning: %s is set to %q (expected %q), not overwriting", key, current, want))
		}
	}
	return messages, warnings, state
}

// backupMalformed saves the unparseable settings file to a .bak sibling
// and reports the failure.
func backupMalformed(path string, data []byte) MergeOutput {
	bakPath := path + ".bak"
	if err := os.WriteFile(bakPath, data, 0644); err != nil {
		return MergeOutput{
			Result:   MergeError,
			Err:      fmt.Errorf("settings.json contains invalid JSON and backup failed: %w", err),
			Messages: []string{fmt.Sprintf("Failed to create backup at %s", bakPath)},
		}
	}
	return MergeOutput{
		Result:   MergeError,
		Err:      fmt.Errorf("settings.json contains invalid JSON (backup saved to %s)", bakPath),
		Messages: []string{fmt.Sprintf("Backup saved to %s", bakPath)},
	}
}

// createSettingsFile writes a fresh settings.json containing only the
// required env block.
func createSettingsFile(path string, required map[string]string) MergeOutput {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return MergeOutput{
				Result: MergeError,
				Err:    fmt.Errorf("permission denied creating directory %s", dir),
			}
		}
		return MergeOutput{
			Result: MergeError,
			Err:    fmt.Errorf("creating directory %s: %w", dir, err),
		}
	}

	env := make(map[string]any, len(required))
	for k, v := range required {
		env[k] = v
	}
	doc := map[string]any{"env": env}

	if err := writeSettingsAtomic(path, doc, "  "); err != nil {
		return MergeOutput{
			Result: MergeError,
			Err:    fmt.Errorf("creating settings file: %w", err),
		}
	}

	return MergeOutput{
		Result:   MergeSuccess,
		Messages: []string{fmt.Sprintf("Created %s with OTel environment variables", path)},
	}
}

// writeSettingsAtomic marshals the document and replaces the target via
// a same-directory temp file and rename, so a crash never leaves a
// half-written settings file.
func writeSettingsAtomic(path string, doc map[string]any, indent string) error {
	data, err := json.MarshalIndent(doc, "", indent)
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".settings-*.json.tmp")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("permission denied writing to %s", dir)
		}
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	_ = os.Chmod(tmpPath, mode)

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}
	tmpPath = ""
	return nil
}
