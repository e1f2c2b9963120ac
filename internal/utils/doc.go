// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses ConfigurationLoader, which layers embedded defaults, project files
// and environment variables through Viper, and LoggerFactory, which builds zap
// loggers for the structured and console formats. CommandContextAccessor
// carries the loaded configuration metadata through command contexts.
package utils
