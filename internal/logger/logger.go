// Package logger provides a process-wide zerolog initializer.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// InitLog sets up a timestamped zerolog logger writing to stderr.
func InitLog() *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "finances").Logger()
	return &log
}
