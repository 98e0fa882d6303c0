package status

import "github.com/charmbracelet/log"

// TerminalReporter logs every tracked event as a structured line via
// charmbracelet/log, grounded on the terminal-output style used
// elsewhere in the pack for CLI progress reporting.
type TerminalReporter struct {
	logger *log.Logger
}

// NewTerminalReporter returns a TerminalReporter writing to the default
// charmbracelet logger.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{logger: log.Default()}
}

func (r *TerminalReporter) Track(event string, fields map[string]any) {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	r.logger.Info(event, args...)
}
