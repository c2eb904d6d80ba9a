// Package logs sets up the per-subsystem leveled loggers shared by the rest
// of this module. Loggers must not be used before InitLogRotator has pointed
// the backend at a file.
package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter relays backend output to stdout and to the rotator, once initiated.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	if initiated {
		os.Stdout.Write(p)
		Rotator.Write(p)
	}
	return len(p), nil
}

var (
	backendLog = btclog.NewBackend(logWriter{})

	// Rotator is the log file rotator. It must be closed on shutdown.
	Rotator *rotator.Rotator

	// WhiteFlagLog is the logger for the confirmation driver (C3/C4).
	WhiteFlagLog = backendLog.Logger(SubsystemTags.WFLG)

	// StorageLog is the logger for the UTXO/balance storage layer.
	StorageLog = backendLog.Logger(SubsystemTags.STOR)

	// ConfigLog is the logger for config parsing and startup.
	ConfigLog = backendLog.Logger(SubsystemTags.CNFG)

	initiated = false
)

// SubsystemTags enumerates the subsystem tags this module logs under.
var SubsystemTags = struct {
	WFLG, STOR, CNFG string
}{
	WFLG: "WFLG",
	STOR: "STOR",
	CNFG: "CNFG",
}

var subsystemLoggers = map[string]btclog.Logger{
	SubsystemTags.WFLG: WhiteFlagLog,
	SubsystemTags.STOR: StorageLog,
	SubsystemTags.CNFG: ConfigLog,
}

// InitLogRotator initializes the rotator writing to logFile and the roll
// files alongside it. It must be called before any logger is used.
func InitLogRotator(logFile string) {
	initiated = true
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %s\n", err)
		os.Exit(1)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %s\n", err)
		os.Exit(1)
	}
	Rotator = r
}

// SetLogLevel sets the logging level for the given subsystem. Invalid
// subsystems are ignored.
func SetLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for every subsystem logger.
func SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// SupportedSubsystems returns a sorted slice of the known subsystem tags.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// ParseAndSetDebugLevels parses a debug level string, either a single level
// applied to every subsystem or a comma-separated list of SUBSYSTEM=level pairs.
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if !validLogLevel(debugLevel) {
			return fmt.Errorf("the specified debug level [%s] is invalid", debugLevel)
		}
		SetLogLevels(debugLevel)
		return nil
	}

	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return fmt.Errorf("the specified debug level contains an invalid subsystem/level pair [%s]", logLevelPair)
		}

		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		if _, exists := subsystemLoggers[subsysID]; !exists {
			return fmt.Errorf("the specified subsystem [%s] is invalid", subsysID)
		}
		if !validLogLevel(logLevel) {
			return fmt.Errorf("the specified debug level [%s] is invalid", logLevel)
		}

		SetLogLevel(subsysID, logLevel)
	}

	return nil
}

func validLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}
