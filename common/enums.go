// Enums shared between the rendering pipeline and the chat panel
// protocol. Kept in a separate package so protocol-facing code does not
// have to import the full configuration.
package common

import (
	"go.uber.org/zap/zapcore"
)

// Severity of a panel message. Values follow the panel protocol's numeric
// levels (syslog-like, lower is more severe).
// ENUM(debug=7, info=6, warning=4, error=3)
type Severity int

// ZapLevel maps a panel severity to the logger's level scale.
func (s Severity) ZapLevel() zapcore.Level {
	switch s {
	case SeverityDebug:
		return zapcore.DebugLevel
	case SeverityInfo:
		return zapcore.InfoLevel
	case SeverityWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Specification of requested render output handling.
// ENUM(raw, pretty)
type OutputMode int
