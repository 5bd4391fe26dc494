// Package logger provides structured logging for streambridge components
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("genai")
//	log.Info("stream opened", logger.Fields("model", "llama3"))
package logger
