package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// inTempDir runs the test from an empty working directory.
func inTempDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(previous)) })

	return dir
}

func TestInitCmd_WritesClojureDefaults(t *testing.T) {
	dir := inTempDir(t)

	_, execute, out := newTestCmd(t, nil, newInitCmd())
	require.NoError(t, execute("init"))
	assert.Contains(t, out.String(), "wrote "+configFileName)

	contents, err := os.ReadFile(filepath.Join(dir, configFileName))
	require.NoError(t, err)

	var written struct {
		Run struct {
			TestCommand     string `yaml:"test_command"`
			MutationTimeout int64  `yaml:"mutation_timeout"`
			Preset          string `yaml:"preset"`
		} `yaml:"run"`
		Paths struct {
			Source []string `yaml:"source"`
			Test   []string `yaml:"test"`
		} `yaml:"paths"`
		Scan struct {
			SkipForms []string `yaml:"skip_forms"`
		} `yaml:"scan"`
	}
	require.NoError(t, yaml.Unmarshal(contents, &written))

	assert.Equal(t, defaultTestCommand, written.Run.TestCommand)
	assert.Equal(t, defaultMutationTimeout.Milliseconds(), written.Run.MutationTimeout)
	assert.NotEmpty(t, written.Run.Preset)
	assert.Equal(t, defaultSourcePaths, written.Paths.Source)
	assert.Equal(t, defaultTestPaths, written.Paths.Test)
	assert.Contains(t, written.Scan.SkipForms, "println")
}

func TestInitCmd_KeepsExistingFile(t *testing.T) {
	dir := inTempDir(t)

	target := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(target, []byte("run:\n  preset: minimal\n"), 0o644))

	_, execute, _ := newTestCmd(t, nil, newInitCmd())
	require.Error(t, execute("init"))

	contents, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "run:\n  preset: minimal\n", string(contents))
}

func TestInitCmd_RejectsArguments(t *testing.T) {
	inTempDir(t)

	_, execute, _ := newTestCmd(t, nil, newInitCmd())
	require.Error(t, execute("init", "extra"))

	_, err := os.Stat(configFileName)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
