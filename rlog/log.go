/*
Package rlog provides the leveled logging façade used across the reneu
core. It has no dependency on the segmentation or nblast packages so both
can log through it without a cyclic import.
*/
package rlog

import "time"

// ModeFlag gates which severities are actually written.
type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

var (
	// Verbose enables Debugf output regardless of Mode, matching dvid.Verbose.
	Verbose bool

	mode   = InfoMode
	logger Logger = stdLogger{}
)

// Logger is implemented by any logging backend the reneu core can write
// through. The default backend writes to the standard log package;
// NewFileLogger swaps in a rotating-file backend for long batch runs.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
}

// SetMode sets the minimum severity that will be written. Use SilentMode to
// suppress all logging, e.g. inside tests that exercise error paths.
func SetMode(m ModeFlag) {
	mode = m
}

// SetLogger swaps the active backend, e.g. to a rotating file logger built
// with NewFileLogger.
func SetLogger(l Logger) {
	if l != nil {
		logger = l
	}
}

func Debugf(format string, args ...interface{}) {
	if Verbose || mode <= DebugMode {
		logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		logger.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if mode <= WarningMode {
		logger.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if mode <= ErrorMode {
		logger.Errorf(format, args...)
	}
}

func Criticalf(format string, args ...interface{}) {
	if mode <= CriticalMode {
		logger.Criticalf(format, args...)
	}
}

// TimeLog appends elapsed time to each logged line. Typical use is timing a
// region-graph build or an agglomeration pass:
//
//	t := rlog.NewTimeLog()
//	...
//	t.Infof("agglomeration finished")
type TimeLog struct {
	start time.Time
}

func NewTimeLog() TimeLog {
	return TimeLog{start: time.Now()}
}

func (t TimeLog) Debugf(format string, args ...interface{}) {
	Debugf(format+": %s", append(args, time.Since(t.start))...)
}

func (t TimeLog) Infof(format string, args ...interface{}) {
	Infof(format+": %s", append(args, time.Since(t.start))...)
}

func (t TimeLog) Warningf(format string, args ...interface{}) {
	Warningf(format+": %s", append(args, time.Since(t.start))...)
}

func (t TimeLog) Errorf(format string, args ...interface{}) {
	Errorf(format+": %s", append(args, time.Since(t.start))...)
}

func (t TimeLog) Criticalf(format string, args ...interface{}) {
	Criticalf(format+": %s", append(args, time.Since(t.start))...)
}
