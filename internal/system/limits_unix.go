//go:build unix

package system

import (
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/scrollreel/internal/logger"
)

// DefaultOpenFiles is enough descriptors for an unthrottled load of a few
// hundred frames from disk.
const DefaultOpenFiles = 2048

// RaiseOpenFileLimit lifts the soft RLIMIT_NOFILE to want, capped at the hard
// limit. It never lowers an existing higher limit.
func RaiseOpenFileLimit(want uint64) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Log.WithError(err).Warn("could not read open file limit")
		return
	}

	if rLimit.Cur >= want {
		return
	}
	rLimit.Cur = want
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Log.WithError(err).Warn("could not raise open file limit")
		return
	}
	logger.Log.WithFields(logrus.Fields{"limit": rLimit.Cur}).Debug("open file limit raised")
}
