package rlog

import "testing"

type recordingLogger struct {
	debug, info, warn, err, crit int
}

func (r *recordingLogger) Debugf(format string, args ...interface{})    { r.debug++ }
func (r *recordingLogger) Infof(format string, args ...interface{})     { r.info++ }
func (r *recordingLogger) Warningf(format string, args ...interface{})  { r.warn++ }
func (r *recordingLogger) Errorf(format string, args ...interface{})    { r.err++ }
func (r *recordingLogger) Criticalf(format string, args ...interface{}) { r.crit++ }

func withLogger(t *testing.T, m ModeFlag, v bool) *recordingLogger {
	t.Helper()
	rec := &recordingLogger{}
	prevLogger, prevMode, prevVerbose := logger, mode, Verbose
	t.Cleanup(func() {
		logger, mode, Verbose = prevLogger, prevMode, prevVerbose
	})
	SetLogger(rec)
	SetMode(m)
	Verbose = v
	return rec
}

func TestModeGatesSeverity(t *testing.T) {
	rec := withLogger(t, WarningMode, false)

	Debugf("d")
	Infof("i")
	Warningf("w")
	Errorf("e")
	Criticalf("c")

	if rec.debug != 0 || rec.info != 0 {
		t.Fatalf("expected debug/info suppressed at WarningMode, got debug=%d info=%d", rec.debug, rec.info)
	}
	if rec.warn != 1 || rec.err != 1 || rec.crit != 1 {
		t.Fatalf("expected warn/err/crit = 1 each, got %d/%d/%d", rec.warn, rec.err, rec.crit)
	}
}

func TestVerboseOverridesDebugSuppression(t *testing.T) {
	rec := withLogger(t, SilentMode, true)
	Debugf("d")
	if rec.debug != 1 {
		t.Fatalf("expected Verbose to force Debugf through, got %d calls", rec.debug)
	}
}

func TestSilentModeSuppressesEverythingExceptVerboseDebug(t *testing.T) {
	rec := withLogger(t, SilentMode, false)
	Debugf("d")
	Infof("i")
	Warningf("w")
	Errorf("e")
	Criticalf("c")
	if rec.debug+rec.info+rec.warn+rec.err+rec.crit != 0 {
		t.Fatalf("expected all severities suppressed at SilentMode, got %+v", rec)
	}
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	rec := withLogger(t, InfoMode, false)
	SetLogger(nil)
	Infof("still routed to rec")
	if rec.info != 1 {
		t.Fatalf("expected SetLogger(nil) to be a no-op, got %d calls", rec.info)
	}
}

func TestTimeLogDelegatesToPackageLevelFuncs(t *testing.T) {
	rec := withLogger(t, DebugMode, false)
	timer := NewTimeLog()
	timer.Infof("done")
	timer.Warningf("slow")
	timer.Errorf("failed")
	timer.Criticalf("fatal")
	if rec.info != 1 || rec.warn != 1 || rec.err != 1 || rec.crit != 1 {
		t.Fatalf("expected one call each on info/warn/err/crit, got %+v", rec)
	}
}
