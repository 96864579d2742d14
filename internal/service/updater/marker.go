package updater

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/upcast/internal/logger"
)

const (
	// MarkerFilename marks that a check is running right now to avoid parallel execution.
	MarkerFilename = "upcast-check-marker.bin"

	// markerLifetime is the period after which a stale check marker is ignored.
	markerLifetime = 30 * time.Second

	// baseExecutable is the binary name checked during stale-marker recovery.
	baseExecutable = "upcast"
)

// IsCheckRunningNow checks presence of a marker file and attempts recovery if it looks stale.
func IsCheckRunningNow(ctx context.Context) bool {
	logger.Debug(ctx, "Checking for the presence of a check marker")

	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The check marker is too old, attempting cleanup")

		if err = terminateProcessByName(clientExecutable()); err != nil {
			return true
		}

		if err = os.Remove(MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read check marker: %v", err)

	return false
}

// terminateProcessByName tries to kill processes with the provided executable name.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}

// clientExecutable returns the platform-specific binary name.
func clientExecutable() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return baseExecutable + ".exe"
	}

	return baseExecutable
}
