// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging for the harvest CLI, plus the
// CommandContextAccessor used to thread per-run metadata through contexts.
package utils
