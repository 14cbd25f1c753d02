package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{pipeline.DefaultFormat}},
		{"svg", []string{"svg"}},
		{"json,dot,svg", []string{"json", "dot", "svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output string
		format string
		multi  bool
		want   string
	}{
		{"dungeon.svg", "svg", false, "dungeon.svg"},
		{"dungeon", "svg", false, "dungeon"},
		{"run", "dot", true, "run.dot"},
		{"run.json", "dot", true, "run.dot"},
		{"run.v2", "dot", true, "run.v2.dot"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.format, tt.multi); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.output, tt.format, tt.multi, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	if got := basePath("runs/seed7.json"); got != "runs/seed7" {
		t.Errorf("basePath() = %q, want %q", got, "runs/seed7")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got, want := expandHome("~/patterns.json"), filepath.Join(home, "patterns.json"); got != want {
		t.Errorf("expandHome() = %q, want %q", got, want)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome() = %q, want unchanged", got)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"json": []byte(`{}`),
		"dot":  []byte("digraph {}"),
	}

	if err := writeArtifacts(artifacts, []string{"json", "dot"}, filepath.Join(dir, "run")); err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	for f, want := range artifacts {
		got, err := os.ReadFile(filepath.Join(dir, "run."+f))
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("run.%s = %q, want %q", f, got, want)
		}
	}
}

func TestWriteArtifacts_StdoutNeedsSingleFormat(t *testing.T) {
	err := writeArtifacts(map[string][]byte{}, []string{"json", "dot"}, "")
	if err == nil {
		t.Error("writeArtifacts() without output for two formats should fail")
	}
}

func TestMergeSettings(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.cfg.Generator.Seed = 99
	c.cfg.Generator.MaxInsertionsTotal = 5
	c.cfg.Generator.Overall = "lock_and_key"

	cmd := c.generateCommand()
	if err := cmd.ParseFlags([]string{"--max-depth", "1", "--overall", "two_keys"}); err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}

	// The command's own opts received the flag values; mirror them here.
	opts := generateOpts{settings: generator.DefaultSettings(), overall: "two_keys"}
	opts.settings.MaxDepth = 1
	c.mergeSettings(cmd, &opts)

	if opts.settings.Seed != 99 {
		t.Errorf("Seed = %d, want 99 from config", opts.settings.Seed)
	}
	if opts.settings.MaxInsertionsTotal != 5 {
		t.Errorf("MaxInsertionsTotal = %d, want 5 from config", opts.settings.MaxInsertionsTotal)
	}
	if opts.settings.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1 from flag", opts.settings.MaxDepth)
	}
	if opts.overall != "two_keys" {
		t.Errorf("overall = %q, want flag value", opts.overall)
	}
}

func TestPrintTypes(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	defer runner.Close()

	var buf bytes.Buffer
	if err := printTypes(&buf, runner); err != nil {
		t.Fatalf("printTypes() error: %v", err)
	}
	out := buf.String()
	for _, name := range []string{"Type", "lock_and_key", "two_alternative_paths", "hidden_shortcut"} {
		if !strings.Contains(out, name) {
			t.Errorf("printTypes() output missing %q", name)
		}
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	want := []string{"generate", "render", "types", "inspect", "runs", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[generator]\nseed = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, log.InfoLevel)
	c.configPath = path
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if c.cfg.Generator.Seed != 7 {
		t.Errorf("Seed = %d, want 7", c.cfg.Generator.Seed)
	}

	c.configPath = filepath.Join(dir, "missing.toml")
	if err := c.loadConfig(); err == nil {
		t.Error("loadConfig() with a missing explicit file should fail")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
