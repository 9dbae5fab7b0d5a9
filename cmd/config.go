package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"gooze.dev/pkg/clooze/internal/domain"
	"gooze.dev/pkg/clooze/internal/domain/mutagens"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "clooze"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName  = "output"
	excludeFlagName = "exclude"
	verboseFlagName = "verbose"
	logFileFlagName = "log-file"

	runParallelFlagName       = "parallel"
	runShardFlagName          = "shard"
	runTimeoutFlagName        = "timeout"
	runPresetFlagName         = "preset"
	runOperatorsFlagName      = "operators"
	runThresholdFlagName      = "threshold"
	runDryRunFlagName         = "dry-run"
	runSkipEquivalentFlagName = "skip-equivalent"
	runTestCommandFlagName    = "test-command"
	runReloadCommandFlagName  = "reload-command"

	runParallelConfigKey       = "run.parallel"
	mutationTimeoutKey         = "run.mutation_timeout"
	runPresetConfigKey         = "run.preset"
	runOperatorsConfigKey      = "run.operators"
	runSkipEquivalentConfigKey = "run.skip_equivalent"
	runThresholdConfigKey      = "run.threshold"
	runDryRunConfigKey         = "run.dry_run"
	runTestCommandConfigKey    = "run.test_command"
	runReloadCommandConfigKey  = "run.reload_command"
	sourcePathsConfigKey       = "paths.source"
	testPathsConfigKey         = "paths.test"
	excludeConfigKey           = "paths.exclude"
	skipFormsConfigKey         = "scan.skip_forms"

	// run.mutation_timeout is configured in milliseconds.
	defaultMutationTimeout = 2 * time.Minute

	defaultReportsDir  = ".clooze-reports"
	defaultRunParallel = 1
	defaultTestCommand = "clojure -M:test -m cognitect.test-runner {test-ns-flags}"

	envPrefix = "CLOOZE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".clooze.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	defaultSourcePaths = []string{"src"}
	defaultTestPaths   = []string{"test"}
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		slog.Debug("Failed to read config file", "path", configFileName, "error", err)
	}
}

func setDefaults() {
	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)

	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(mutationTimeoutKey, defaultMutationTimeout.Milliseconds())
	viper.SetDefault(runPresetConfigKey, mutagens.PresetStandard)
	viper.SetDefault(runOperatorsConfigKey, []string{})
	viper.SetDefault(runSkipEquivalentConfigKey, false)
	viper.SetDefault(runThresholdConfigKey, 0.0)
	viper.SetDefault(runDryRunConfigKey, false)
	viper.SetDefault(runTestCommandConfigKey, defaultTestCommand)
	viper.SetDefault(runReloadCommandConfigKey, "")

	viper.SetDefault(sourcePathsConfigKey, defaultSourcePaths)
	viper.SetDefault(testPathsConfigKey, defaultTestPaths)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(skipFormsConfigKey, domain.DefaultSkipForms)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels, e.g. -4 for debug.
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at the configured level; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose || viper.GetBool(logVerboseKey) {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// mutationTimeout reads run.mutation_timeout as milliseconds.
func mutationTimeout() time.Duration {
	return time.Duration(viper.GetInt64(mutationTimeoutKey)) * time.Millisecond
}

// operatorIDs reads run.operators, accepting both lists and comma-separated strings.
func operatorIDs() []string {
	return splitIDs(viper.GetStringSlice(runOperatorsConfigKey))
}

func splitIDs(values []string) []string {
	var ids []string

	for _, value := range values {
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	return ids
}
