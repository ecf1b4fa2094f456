package logging

import "time"

// Timer logs the duration of an operation when it ends.
type Timer struct {
	logger Logger
	msg    string
	fields []Field
	start  time.Time
}

// StartTimer starts timing an operation. End or EndError logs msg with the
// given fields and the elapsed time.
func StartTimer(logger Logger, msg string, fields ...Field) *Timer {
	return &Timer{logger: logger, msg: msg, fields: fields, start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation at info level.
func (t *Timer) End(fields ...Field) time.Duration {
	d := t.Elapsed()
	t.logger.Info(t.msg, t.with(d, fields)...)
	return d
}

// EndError logs the operation as failed.
func (t *Timer) EndError(err error, fields ...Field) time.Duration {
	d := t.Elapsed()
	t.logger.Error(t.msg, append(t.with(d, fields), Error(err))...)
	return d
}

func (t *Timer) with(d time.Duration, fields []Field) []Field {
	all := make([]Field, 0, len(t.fields)+len(fields)+1)
	all = append(all, t.fields...)
	all = append(all, fields...)
	return append(all, Latency(d))
}
