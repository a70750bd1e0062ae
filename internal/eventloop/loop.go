// Package eventloop provides a deterministic single-threaded callback
// scheduler with a virtual clock. It drives asynchronous boundaries in
// tests without real time: callbacks run in FIFO order, and the clock
// jumps to the next timer deadline whenever the ready queue drains.
package eventloop

// Loop runs callbacks on a single thread in deterministic order.
type Loop struct {
	nowMs       uint64
	queue       []func()
	nextTimerID TimerID
	timers      timerHeap
	timerByID   map[TimerID]*timer
}

// New constructs an idle loop at virtual time zero.
func New() *Loop {
	return &Loop{
		nextTimerID: 1,
		timerByID:   make(map[TimerID]*timer),
	}
}

// NowMs returns the current virtual time.
func (l *Loop) NowMs() uint64 {
	if l == nil {
		return 0
	}
	return l.nowMs
}

// Post enqueues fn to run on the next queue drain.
func (l *Loop) Post(fn func()) {
	if l == nil || fn == nil {
		return
	}
	l.queue = append(l.queue, fn)
}

// After schedules fn to run once at now + delayMs.
func (l *Loop) After(delayMs uint64, fn func()) TimerID {
	return l.schedule(delayMs, 0, fn)
}

// Every schedules fn to run each intervalMs until cancelled. A live
// recurring timer keeps Run going; cancel it to let the loop drain.
func (l *Loop) Every(intervalMs uint64, fn func()) TimerID {
	if intervalMs == 0 {
		intervalMs = 1
	}
	return l.schedule(intervalMs, intervalMs, fn)
}

// Run drains the queue, advancing virtual time to each next timer
// deadline, until no work remains.
func (l *Loop) Run() {
	if l == nil {
		return
	}
	for {
		for len(l.queue) > 0 {
			fn := l.queue[0]
			copy(l.queue, l.queue[1:])
			l.queue = l.queue[:len(l.queue)-1]
			fn()
		}
		if !l.advanceToNextTimer() {
			return
		}
	}
}
