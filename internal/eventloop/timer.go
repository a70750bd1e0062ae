package eventloop

import "container/heap"

// TimerID identifies a scheduled timer.
type TimerID uint64

type timer struct {
	id         TimerID
	deadlineMs uint64
	intervalMs uint64 // 0 for one-shot
	fn         func()
	cancelled  bool
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadlineMs == h[j].deadlineMs {
		return h[i].id < h[j].id
	}
	return h[i].deadlineMs < h[j].deadlineMs
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) {
	t, ok := x.(*timer)
	if !ok || t == nil {
		return
	}
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	if n == 0 {
		return (*timer)(nil)
	}
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (l *Loop) schedule(delayMs, intervalMs uint64, fn func()) TimerID {
	if l == nil || fn == nil {
		return 0
	}
	if l.nextTimerID == 0 {
		l.nextTimerID = 1
	}
	id := l.nextTimerID
	l.nextTimerID++
	t := &timer{
		id:         id,
		deadlineMs: l.nowMs + delayMs,
		intervalMs: intervalMs,
		fn:         fn,
	}
	if l.timerByID == nil {
		l.timerByID = make(map[TimerID]*timer)
	}
	l.timerByID[id] = t
	heap.Push(&l.timers, t)
	return id
}

// Cancel marks a timer as cancelled and removes it from lookup.
func (l *Loop) Cancel(id TimerID) {
	if l == nil || id == 0 {
		return
	}
	t := l.timerByID[id]
	if t == nil {
		return
	}
	t.cancelled = true
	delete(l.timerByID, id)
}

// Active reports whether a timer is still pending.
func (l *Loop) Active(id TimerID) bool {
	if l == nil || id == 0 {
		return false
	}
	t := l.timerByID[id]
	return t != nil && !t.cancelled
}

// advanceToNextTimer jumps the clock to the earliest live deadline and
// queues every timer due at that instant. Returns false when no live
// timers remain.
func (l *Loop) advanceToNextTimer() bool {
	if l == nil {
		return false
	}
	for {
		if len(l.timers) == 0 {
			return false
		}
		t, ok := heap.Pop(&l.timers).(*timer)
		if !ok || t == nil {
			continue
		}
		if t.cancelled {
			continue
		}
		l.nowMs = t.deadlineMs
		l.fire(t)
		for len(l.timers) > 0 {
			next := l.timers[0]
			if next == nil || next.cancelled {
				heap.Pop(&l.timers)
				continue
			}
			if next.deadlineMs > l.nowMs {
				break
			}
			heap.Pop(&l.timers)
			l.fire(next)
		}
		return true
	}
}

func (l *Loop) fire(t *timer) {
	if t == nil || t.cancelled {
		return
	}
	if t.intervalMs > 0 {
		t.deadlineMs = l.nowMs + t.intervalMs
		heap.Push(&l.timers, t)
	} else {
		delete(l.timerByID, t.id)
	}
	l.queue = append(l.queue, t.fn)
}
