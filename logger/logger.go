// Package logger holds the logger the election driver warns through when
// a ballot or consonance round is rejected. Discarded by default so that
// library callers (anything importing benaloh/election directly) see
// silence unless the CLI opts in with SetLogger.
package logger

import "github.com/getamis/sirius/log"

var logger = log.Discard()

// Logger returns the current package-level logger.
func Logger() log.Logger {
	return logger
}

// SetLogger replaces the package-level logger, e.g. with a real sirius/log
// logger wired up by cmd/benaloh/run before running an election.
func SetLogger(log log.Logger) {
	logger = log
}
