package publisher

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/update-manifest-publisher/internal/logger"
)

const (
	// MarkerFilename marks that a publish run is in progress to avoid two
	// runs interleaving on the same working directory and release.
	MarkerFilename = "manifest-publisher-marker.bin"

	// baseExecutableName is the publisher binary; the platform helper
	// appends the extension when needed.
	baseExecutableName = "manifest-publisher"

	// markerLifetime is the period after which a stale publish marker is ignored.
	markerLifetime = 30 * time.Second
)

// IsPublisherRunningNow checks presence of a marker file and attempts recovery
// if it looks stale.
func IsPublisherRunningNow(ctx context.Context) bool {
	logger.Debug(ctx, "Checking for the presence of a publish marker")

	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The publish marker is too old, attempting cleanup")

		if err = terminateProcessByName(publisherExecutable()); err != nil {
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

	logger.Infof(ctx, "Unable to read publish marker: %v", err)

	return false
}

// createMarker writes the marker file for the current run.
func createMarker() error {
	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return err
	}

	return marker.Close()
}

// removeMarker deletes the marker file, best effort.
func removeMarker(ctx context.Context) {
	if err := os.Remove(MarkerFilename); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Infof(ctx, "Unable to remove publish marker: %v", err)
	}
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

// publisherExecutable returns the binary name with ".exe" appended on Windows.
func publisherExecutable() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return baseExecutableName + ".exe"
	}

	return baseExecutableName
}
