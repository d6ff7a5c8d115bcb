package sap_calc

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetLogger replaces the package logger. Call it before calculations start.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}
