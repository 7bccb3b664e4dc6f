package ecs

import (
	"testing"

	"github.com/milk9111/ropesim/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex < 0 {
				return
			}
			if !w.DestroyEntity(ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if w.IsAlive(ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if w.DestroyEntity(ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return false for a dead entity")
			}
			if len(w.Entities()) != c.create-1 {
				t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(w.Entities()))
			}
		})
	}
}

func TestRecycledEntityIsNewHandle(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := w.CreateEntity()
	if err := Add(w, old, h, 7); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	w.DestroyEntity(old)

	fresh := w.CreateEntity()
	if fresh == old {
		t.Fatalf("recycled entity should carry a new generation")
	}
	if fresh.id() != old.id() {
		t.Fatalf("expected id %d to be reused, got %d", old.id(), fresh.id())
	}
	if Has(w, fresh, h) {
		t.Fatalf("recycled entity must not inherit components")
	}
	if err := Add(w, old, h, 1); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()
	h3 := component.NewComponent[float64]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1, 10) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1)
				if !ok || v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2, "a"); err != nil {
					return err
				}
				return Add(w, e2, h2, "b")
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2) || !Has(w, e2, h2) {
					t.Fatalf("expected both entities to have string component")
				}
				if got := w.Query(h2.Kind()); len(got) != 2 {
					t.Fatalf("expected 2 entities in query, got %v", got)
				}
			},
			teardown: func() bool { return Remove(w, e1, h2) },
		},
		{
			name:  "overwrite_float",
			setup: func() error { _ = Add(w, e1, h3, 1.23); return Add(w, e1, h3, 4.56) },
			check: func(t *testing.T) {
				if v, ok := Get(w, e1, h3); !ok || v != 4.56 {
					t.Fatalf("expected overwritten float, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h3) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := w.CreateEntity()
				e2 := w.CreateEntity()
				e3 := w.CreateEntity()

				ka := component.NewComponent[int]()
				kb := component.NewComponent[string]()

				_ = Add(w, e1, ka, 1)
				_ = Add(w, e2, ka, 2)
				_ = Add(w, e2, kb, "x")
				_ = Add(w, e3, kb, "y")

				res := w.Query(ka.Kind(), kb.Kind())
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
				first, ok := w.First(kb.Kind(), ka.Kind())
				if !ok || first != e2 {
					t.Fatalf("expected First to return e2, got %v ok=%v", first, ok)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := w.CreateEntity()
				ka := component.NewComponent[int]()
				_ = Add(w, e, ka, 1)
				w.DestroyEntity(e)

				if res := w.Query(ka.Kind()); len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store_returns_nil",
			run: func(t *testing.T) {
				w := NewWorld()
				e := w.CreateEntity()
				ka := component.NewComponent[int]()
				kb := component.NewComponent[int]()
				_ = Add(w, e, ka, 1)

				if res := w.Query(ka.Kind(), kb.Kind()); len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
				if _, ok := w.First(kb.Kind()); ok {
					t.Fatalf("expected First to fail on a missing store")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestForEachWritesBack(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()
	_ = Add(w, e1, h, 1)
	_ = Add(w, e3, h, 3)

	seen := map[Entity]bool{}
	ForEach(w, h, func(e Entity, v *int) {
		seen[e] = true
		*v *= 10
	})

	if !seen[e1] || !seen[e3] || seen[e2] {
		t.Fatalf("unexpected ForEach visit set %v", seen)
	}
	if v, _ := Get(w, e1, h); v != 10 {
		t.Fatalf("expected write back of 10, got %d", v)
	}
	if v, _ := Get(w, e3, h); v != 30 {
		t.Fatalf("expected write back of 30, got %d", v)
	}
}

func TestEventQueue(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()

	w.Events().PushRope(RopeEvent{Entity: e, Kind: RopeEventReset, Tick: 4})
	if w.Events().Len() != 1 {
		t.Fatalf("expected one queued event")
	}

	events := w.Events().Drain()
	if len(events) != 1 || events[0].Type != string(RopeEventReset) {
		t.Fatalf("unexpected events %v", events)
	}
	if evt, ok := events[0].Data.(RopeEvent); !ok || evt.Tick != 4 {
		t.Fatalf("unexpected payload %v", events[0].Data)
	}
	if w.Events().Drain() != nil {
		t.Fatalf("queue should be empty after drain")
	}
}

type countingSystem struct{ calls int }

func (c *countingSystem) Update(*World, float64) { c.calls++ }

func TestScheduler(t *testing.T) {
	a, b := &countingSystem{}, &countingSystem{}
	s := NewScheduler(a, nil)
	s.Add(b)
	s.Add(nil)

	s.Update(NewWorld(), 1.0/60)
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected each system to run once, got %d and %d", a.calls, b.calls)
	}
	if len(s.Systems()) != 2 {
		t.Fatalf("expected 2 systems, got %d", len(s.Systems()))
	}
}
