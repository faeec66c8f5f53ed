// Package logger provides structured logging for dpipes using zerolog.
//
// It supports JSON and console output formats, log level configuration,
// and component-scoped loggers with structured fields.
//
// # Usage
//
//	log := logger.NewDefault("dpipes")
//	log.Info("pipeline built", logger.Fields("pipeline", "retail", "stages", 4))
package logger
