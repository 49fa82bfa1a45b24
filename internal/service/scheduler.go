package service

import "time"

// CancelFunc stops a scheduled call. It reports false if the call already ran or was cancelled.
type CancelFunc func() bool

type Scheduler interface {
	Schedule(delay time.Duration, fn func()) CancelFunc
}

// timerScheduler runs fn once on its own goroutine after delay.
type timerScheduler struct{}

func NewScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(delay time.Duration, fn func()) CancelFunc {
	return time.AfterFunc(max(delay, 0), fn).Stop
}
