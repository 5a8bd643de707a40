package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"submerge/internal/config"
	"submerge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	baseDir    string
	stateDir   string
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("OPENAI_API_KEY", "")

	return &cliTestEnv{
		cfg:        cfg,
		baseDir:    base,
		stateDir:   cfg.Paths.StateDir,
		configPath: testsupport.WriteConfigFile(t, cfg),
	}
}

func (e *cliTestEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	return testsupport.WriteFile(t, e.baseDir, name, content)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

const originalSRT = `1
00:00:01,000 --> 00:00:02,000
Hello there.

2
00:00:02,000 --> 00:00:03,000
How are you?

3
00:00:03,000 --> 00:00:04,000
I am fine.
`

// modifiedASS holds the same dialogue out of order, plus a sign and a
// comment that the default style filter drops.
const modifiedASS = `[Script Info]
Title: test

[V4+ Styles]
Format: Name, Fontname
Style: Default,Arial

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:03.00,0:00:04.00,Default,,0,0,0,,I am fine.
Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,Hello there.
Comment: 0,0:00:01.50,0:00:02.00,Default,,0,0,0,,note to self
Dialogue: 0,0:00:02.00,0:00:03.00,Signs,,0,0,0,,EXIT
Dialogue: 0,0:00:02.00,0:00:03.00,Default,,0,0,0,,How are you?
`
