package logger

// Logger is the logging contract used across the pipeline and scanner.
// Component names keep batch logs filterable without per-package loggers.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}
