package cmd

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "clooze", configBaseName)
	assert.Equal(t, "clooze.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "parallel", runParallelFlagName)
	assert.Equal(t, "run.parallel", runParallelConfigKey)
	assert.Equal(t, "run.mutation_timeout", mutationTimeoutKey)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, ".clooze-reports", defaultReportsDir)
	assert.Equal(t, 1, defaultRunParallel)
	assert.Equal(t, "CLOOZE", envPrefix)
	assert.Equal(t, ".clooze.log", defaultLogFilename)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, int64(120000), viper.GetInt64(mutationTimeoutKey))
	assert.Equal(t, 2*time.Minute, mutationTimeout())
	assert.Equal(t, "standard", viper.GetString(runPresetConfigKey))
	assert.Equal(t, []string{"src"}, viper.GetStringSlice(sourcePathsConfigKey))
	assert.Equal(t, []string{"test"}, viper.GetStringSlice(testPathsConfigKey))
	assert.Equal(t, defaultTestCommand, viper.GetString(runTestCommandConfigKey))
	assert.Empty(t, viper.GetString(runReloadCommandConfigKey))
	assert.NotEmpty(t, viper.GetStringSlice(skipFormsConfigKey))
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestConfigureLogger_WritesToFile(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	logPath := filepath.Join(t.TempDir(), "run.log")
	configureLogger(logPath, true)

	require.NotNil(t, globalLogger)
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))

	slog.Debug("hello from test")
	assert.FileExists(t, logPath)
}

func TestSplitIDs(t *testing.T) {
	got := splitIDs([]string{"arith-add-sub, cmp-lt-lte", "", "logic-and-or"})
	assert.Equal(t, []string{"arith-add-sub", "cmp-lt-lte", "logic-and-or"}, got)
	assert.Empty(t, splitIDs(nil))
}
