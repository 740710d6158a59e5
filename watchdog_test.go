package iconatlas

import (
	"testing"

	"github.com/gogpu/iconatlas/surface"
)

type countingListener struct {
	name  string
	ticks int
	fn    func()
	log   *[]string
}

func (l *countingListener) OnTick() {
	l.ticks++
	if l.log != nil {
		*l.log = append(*l.log, l.name)
	}
	if l.fn != nil {
		l.fn()
	}
}

func TestWatchdogRegisterIsIdempotent(t *testing.T) {
	w := NewWatchdog()
	l := &countingListener{}

	w.Register(l)
	w.Register(l)
	w.Register(nil)
	if w.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", w.Len())
	}

	w.Tick()
	if l.ticks != 1 {
		t.Errorf("ticks = %d, want 1", l.ticks)
	}

	w.Unregister(l)
	w.Unregister(l)
	w.Tick()
	if l.ticks != 1 || w.Len() != 0 {
		t.Errorf("ticks = %d, Len() = %d after unregister", l.ticks, w.Len())
	}
}

func TestWatchdogTickIsolatesPanics(t *testing.T) {
	w := NewWatchdog()
	var order []string
	a := &countingListener{name: "a", log: &order}
	b := &countingListener{name: "b", log: &order, fn: func() { panic("device lost") }}
	c := &countingListener{name: "c", log: &order}
	w.Register(a)
	w.Register(b)
	w.Register(c)

	w.Tick()

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
}

func TestWatchdogUnregisterDuringTick(t *testing.T) {
	w := NewWatchdog()
	later := &countingListener{}
	var added *countingListener
	first := &countingListener{fn: func() {
		w.Unregister(later)
		if added == nil {
			added = &countingListener{}
			w.Register(added)
		}
	}}
	w.Register(first)
	w.Register(later)

	w.Tick()

	if later.ticks != 0 {
		t.Error("listener removed during tick was notified")
	}
	if added.ticks != 0 {
		t.Error("listener added during tick was notified in the same tick")
	}
	w.Tick()
	if added.ticks != 1 {
		t.Errorf("added listener ticks = %d, want 1", added.ticks)
	}
	if w.Len() != 2 {
		t.Errorf("Len() = %d, want 2", w.Len())
	}
}

func TestDefaultWatchdog(t *testing.T) {
	ResetDefaultWatchdog()
	t.Cleanup(ResetDefaultWatchdog)

	w := DefaultWatchdog()
	if w != DefaultWatchdog() {
		t.Fatal("DefaultWatchdog not shared")
	}

	a, err := New(gridConfig(8, 8, 4, 4, 0), WithBackend("image"))
	if err != nil {
		t.Fatal(err)
	}
	if w.Len() != 1 {
		t.Errorf("default watchdog listeners = %d, want 1", w.Len())
	}

	called := 0
	a.AllocateIcon(func() error { called++; return nil })
	a.Surface().(surface.Invalidator).Invalidate()
	Tick()
	if called != 1 {
		t.Errorf("reset callbacks = %d, want 1", called)
	}

	a.Dispose()
	if w.Len() != 0 {
		t.Error("disposed atlas still registered")
	}

	ResetDefaultWatchdog()
	if DefaultWatchdog() == w {
		t.Error("ResetDefaultWatchdog kept the old instance")
	}
}
