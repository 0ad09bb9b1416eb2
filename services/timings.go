package services

import "time"

// Timings collects every fixed delay of the orchestration loops. Production
// code uses DefaultTimings; tests inject shortened values.
type Timings struct {
	PollWaiting     time.Duration // next status poll while the session waits
	PollRetry       time.Duration // next poll after transport error or unknown status
	FailureRestart  time.Duration // delay before restarting after a reported failure
	CreateRetry     time.Duration // automatic retry after a failed creation
	CancelSettle    time.Duration // delay between cancel observation and restart
	ExpiryTick      time.Duration // countdown recomputation cadence
	ActuateFallback time.Duration // banner time when the actuation call fails

	DevicePoll      time.Duration // device command poll cadence
	DevicePollRetry time.Duration // device poll cadence after a transport failure
	OverlayHold     time.Duration // minimum command overlay display time

	ProbeInterval time.Duration // connectivity probe cadence
	ProbeTimeout  time.Duration // per-attempt connectivity probe timeout

	AudioThrottle time.Duration // per-key cue suppression window
}

func DefaultTimings() Timings {
	return Timings{
		PollWaiting:     2000 * time.Millisecond,
		PollRetry:       3000 * time.Millisecond,
		FailureRestart:  1200 * time.Millisecond,
		CreateRetry:     3000 * time.Millisecond,
		CancelSettle:    300 * time.Millisecond,
		ExpiryTick:      1000 * time.Millisecond,
		ActuateFallback: 4000 * time.Millisecond,
		DevicePoll:      500 * time.Millisecond,
		DevicePollRetry: 1000 * time.Millisecond,
		OverlayHold:     1000 * time.Millisecond,
		ProbeInterval:   10000 * time.Millisecond,
		ProbeTimeout:    5000 * time.Millisecond,
		AudioThrottle:   250 * time.Millisecond,
	}
}
