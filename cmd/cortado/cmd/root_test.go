package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafeops/cortado/pkg/version"
)

func TestRootCmd_NoArgsShowsHelp(t *testing.T) {
	// Given: a root command
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	// When: executing with no arguments
	err := cmd.Execute()

	// Then: it should print usage
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "cortado")
	assert.Contains(t, output, "ask")
	assert.Contains(t, output, "query")
	assert.Contains(t, output, "reindex")
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"ask", "query", "reindex", "status", "doctor", "items", "config", "version"}
	var got []string
	for _, sub := range cmd.Commands() {
		got = append(got, sub.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name, "missing subcommand %q", name)
	}
}

func TestRootCmd_VersionFlag(t *testing.T) {
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "cortado version "+version.Version, strings.TrimSpace(buf.String()))
}

func TestVersionCmd_DefaultOutput(t *testing.T) {
	// Given: a version command
	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	// When: executing without flags
	err := cmd.Execute()

	// Then: it should output the full version string
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "cortado")
	assert.Contains(t, output, version.Version)
	assert.Contains(t, output, "commit")
}

func TestVersionCmd_ShortOutput(t *testing.T) {
	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--short"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, version.Version, strings.TrimSpace(buf.String()))
}

func TestVersionCmd_JSONOutput(t *testing.T) {
	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--json"})

	err := cmd.Execute()

	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, version.Version, info["version"])
	assert.Contains(t, info, "go_version")
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	cmd := newAskCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()

	assert.Error(t, err)
}

func TestItemsAddCmd_RejectsUnknownType(t *testing.T) {
	cmd := newItemsAddCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"gadget", "Widget"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown item type")
}

func TestItemsDeleteCmd_RejectsBadID(t *testing.T) {
	cmd := newItemsDeleteCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"product", "notanumber"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid item id")
}

func TestConfigInitCmd_WritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortado.yaml")
	configPath = path
	t.Cleanup(func() { configPath = "" })

	cmd := newConfigInitCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "embeddings:")
	assert.Contains(t, buf.String(), "Created configuration")

	// Second run without --force leaves the file alone.
	buf.Reset()
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "already exists")
}

func TestConfigPathCmd_HonorsFlag(t *testing.T) {
	configPath = "/tmp/custom.yaml"
	t.Cleanup(func() { configPath = "" })

	cmd := newConfigPathCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "/tmp/custom.yaml\n", buf.String())
}
