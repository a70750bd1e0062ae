package eventloop

import "testing"

func TestRunDrainsInFIFOOrder(t *testing.T) {
	loop := New()
	var order []int
	loop.Post(func() { order = append(order, 1) })
	loop.Post(func() { order = append(order, 2) })
	loop.Run()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order mismatch: want [1 2], got %v", order)
	}
}

func TestAfterAdvancesVirtualTime(t *testing.T) {
	loop := New()
	var firedAt []uint64
	loop.After(30, func() { firedAt = append(firedAt, loop.NowMs()) })
	loop.After(10, func() { firedAt = append(firedAt, loop.NowMs()) })
	loop.Run()
	if len(firedAt) != 2 || firedAt[0] != 10 || firedAt[1] != 30 {
		t.Fatalf("deadlines mismatch: want [10 30], got %v", firedAt)
	}
	if loop.NowMs() != 30 {
		t.Fatalf("clock mismatch: want 30, got %d", loop.NowMs())
	}
}

func TestSameInstantFiresInScheduleOrder(t *testing.T) {
	loop := New()
	var order []int
	loop.After(5, func() { order = append(order, 1) })
	loop.After(5, func() { order = append(order, 2) })
	loop.Run()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order mismatch: want [1 2], got %v", order)
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	loop := New()
	fired := false
	id := loop.After(5, func() { fired = true })
	if !loop.Active(id) {
		t.Fatalf("timer should be active before firing")
	}
	loop.Cancel(id)
	if loop.Active(id) {
		t.Fatalf("timer should be inactive after cancel")
	}
	loop.Run()
	if fired {
		t.Fatalf("cancelled timer fired")
	}
}

func TestEveryRepeatsUntilCancelled(t *testing.T) {
	loop := New()
	count := 0
	var id TimerID
	id = loop.Every(10, func() {
		count++
		if count == 3 {
			loop.Cancel(id)
		}
	})
	loop.Run()
	if count != 3 {
		t.Fatalf("tick count mismatch: want 3, got %d", count)
	}
	if loop.NowMs() != 30 {
		t.Fatalf("clock mismatch: want 30, got %d", loop.NowMs())
	}
}

func TestTimersScheduledFromCallbacks(t *testing.T) {
	loop := New()
	var marks []uint64
	loop.After(5, func() {
		loop.After(5, func() { marks = append(marks, loop.NowMs()) })
	})
	loop.Run()
	if len(marks) != 1 || marks[0] != 10 {
		t.Fatalf("nested timer mismatch: want [10], got %v", marks)
	}
}
