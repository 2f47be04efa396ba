package pool

import (
	"math/rand"
	"testing"
)

type thing struct {
	value  int
	resets int
}

func newThingPool(initial int) *Pool[*thing, int] {
	return New(
		func() *thing { return &thing{} },
		func(t *thing, v int) {
			t.value = v
			t.resets++
		},
		initial,
	)
}

func checkConservation(t *testing.T, p *Pool[*thing, int]) {
	t.Helper()
	if p.Free()+p.Active() != p.Created() {
		t.Fatalf("free(%d) + active(%d) != created(%d)", p.Free(), p.Active(), p.Created())
	}
}

func TestPrewarm(t *testing.T) {
	p := newThingPool(5)
	if p.Free() != 5 || p.Active() != 0 || p.Created() != 5 {
		t.Fatalf("prewarm: free=%d active=%d created=%d", p.Free(), p.Active(), p.Created())
	}
}

func TestAcquireResetsAndReuses(t *testing.T) {
	p := newThingPool(1)
	a := p.Acquire(7)
	if a.value != 7 || a.resets != 1 {
		t.Fatalf("acquired thing = %+v, want value 7 after one reset", *a)
	}
	p.Release(a)

	b := p.Acquire(9)
	if b != a {
		t.Fatal("expected released instance to be reused")
	}
	if b.value != 9 || b.resets != 2 {
		t.Fatalf("reused thing = %+v, want value 9 after two resets", *b)
	}
	if p.Created() != 1 {
		t.Fatalf("created = %d, want 1", p.Created())
	}
}

func TestAcquireGrowsWhenEmpty(t *testing.T) {
	p := newThingPool(2)
	for i := 0; i < 10; i++ {
		p.Acquire(i)
	}
	if p.Active() != 10 || p.Free() != 0 || p.Created() != 10 {
		t.Fatalf("after growth: active=%d free=%d created=%d", p.Active(), p.Free(), p.Created())
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	p := newThingPool(3)
	a := p.Acquire(1)
	b := p.Acquire(2)

	if !p.Release(a) {
		t.Fatal("first release should report true")
	}
	free, active := p.Free(), p.Active()
	if p.Release(a) {
		t.Fatal("second release should report false")
	}
	if p.Free() != free || p.Active() != active {
		t.Fatalf("double release changed state: free %d->%d active %d->%d", free, p.Free(), active, p.Active())
	}
	if !p.IsActive(b) || p.IsActive(a) {
		t.Fatal("unexpected active membership after release")
	}

	stranger := &thing{}
	p.Release(stranger)
	if p.Free() != free {
		t.Fatal("releasing a foreign object must be a no-op")
	}
	checkConservation(t, p)
}

func TestSnapshotIsolation(t *testing.T) {
	p := newThingPool(0)
	for i := 0; i < 4; i++ {
		p.Acquire(i)
	}

	snap := p.Snapshot()
	for _, obj := range snap {
		p.Release(obj)
	}
	if len(snap) != 4 {
		t.Fatalf("snapshot length changed to %d", len(snap))
	}
	for i, obj := range snap {
		if obj.value != i {
			t.Errorf("snapshot[%d].value = %d, want %d (active order)", i, obj.value, i)
		}
	}
	if p.Active() != 0 {
		t.Fatalf("active = %d, want 0", p.Active())
	}
}

func TestReleasePreservesOrder(t *testing.T) {
	p := newThingPool(0)
	objs := make([]*thing, 5)
	for i := range objs {
		objs[i] = p.Acquire(i)
	}
	p.Release(objs[2])

	got := p.AppendActive(nil)
	want := []int{0, 1, 3, 4}
	for i, obj := range got {
		if obj.value != want[i] {
			t.Fatalf("active[%d] = %d, want %d", i, obj.value, want[i])
		}
	}
}

func TestReleaseAll(t *testing.T) {
	p := newThingPool(2)
	for i := 0; i < 5; i++ {
		p.Acquire(i)
	}
	p.ReleaseAll()
	if p.Active() != 0 || p.Free() != 5 {
		t.Fatalf("after ReleaseAll: active=%d free=%d", p.Active(), p.Free())
	}
	checkConservation(t, p)
}

func TestRandomOperationsConserveInstances(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := newThingPool(4)
	var held []*thing

	for step := 0; step < 5000; step++ {
		switch rng.Intn(4) {
		case 0, 1:
			held = append(held, p.Acquire(step))
		case 2:
			if len(held) > 0 {
				i := rng.Intn(len(held))
				p.Release(held[i])
				// Keep the handle around sometimes to exercise double release.
				if rng.Intn(2) == 0 {
					held = append(held[:i], held[i+1:]...)
				}
			}
		case 3:
			if rng.Intn(50) == 0 {
				p.ReleaseAll()
			}
		}
		checkConservation(t, p)
	}
}
