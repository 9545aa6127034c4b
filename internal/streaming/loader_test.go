package streaming

import (
	"testing"

	"terrain-streamer/internal/world"
)

type fakeActions struct {
	loads      []world.ChunkCoord
	priorities map[world.ChunkCoord]int
	refreshed  int
	canceled   []world.ChunkCoord
}

func newFakeActions() *fakeActions {
	return &fakeActions{priorities: make(map[world.ChunkCoord]int)}
}

func (f *fakeActions) LoadChunk(c world.ChunkCoord, priority int) Subscription {
	f.loads = append(f.loads, c)
	f.priorities[c] = priority
	return SubscriptionFunc(func() {
		f.canceled = append(f.canceled, c)
		delete(f.priorities, c)
	})
}

func (f *fakeActions) SetChunkLoadingPriority(c world.ChunkCoord, priority int) {
	f.refreshed++
	f.priorities[c] = priority
}

func (f *fakeActions) reset() {
	f.loads, f.canceled, f.refreshed = nil, nil, 0
}

func coords(pairs ...int) []world.ChunkCoord {
	out := make([]world.ChunkCoord, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, world.ChunkCoord{X: pairs[i], Z: pairs[i+1]})
	}
	return out
}

// TestSpiralRadiusOne verifies the exact visiting order around the centre
func TestSpiralRadiusOne(t *testing.T) {
	var got []world.ChunkCoord
	Spiral(world.ChunkCoord{}, 1, func(c world.ChunkCoord) { got = append(got, c) })
	want := coords(0, 0, -1, -1, 0, -1, 1, -1, 1, 0, 1, 1, 0, 1, -1, 1, -1, 0)
	if len(got) != len(want) {
		t.Fatalf("visited %d chunks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestSpiralCoversSquare verifies each chunk in the square is visited once, rings in order
func TestSpiralCoversSquare(t *testing.T) {
	center := world.ChunkCoord{X: 3, Z: -4}
	seen := map[world.ChunkCoord]int{}
	var order []world.ChunkCoord
	Spiral(center, 2, func(c world.ChunkCoord) {
		seen[c]++
		order = append(order, c)
	})
	if len(order) != 25 {
		t.Fatalf("visited %d chunks, want 25", len(order))
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("%v visited %d times", c, n)
		}
		if abs(c.X-center.X) > 2 || abs(c.Z-center.Z) > 2 {
			t.Errorf("%v outside radius 2", c)
		}
	}
	ring := func(c world.ChunkCoord) int { return max(abs(c.X-center.X), abs(c.Z-center.Z)) }
	for i := 1; i < len(order); i++ {
		if ring(order[i]) < ring(order[i-1]) {
			t.Fatalf("step %d moves inward from ring %d to %d", i, ring(order[i-1]), ring(order[i]))
		}
	}
	if order[9] != (world.ChunkCoord{X: 1, Z: -6}) {
		t.Errorf("ring 2 starts at %v, want its top-left corner", order[9])
	}
}

// TestLoaderInitialLoad verifies the first update loads every chunk with its distance as priority
func TestLoaderInitialLoad(t *testing.T) {
	actions := newFakeActions()
	l := NewLazyChunkLoader(actions, 1)
	l.Update(world.ChunkCoord{})

	if len(actions.loads) != 9 {
		t.Fatalf("loaded %d chunks, want 9", len(actions.loads))
	}
	if actions.loads[0] != (world.ChunkCoord{}) {
		t.Errorf("first load = %v, want the viewer chunk", actions.loads[0])
	}
	for c, p := range actions.priorities {
		if want := c.X*c.X + c.Z*c.Z; p != want {
			t.Errorf("priority of %v = %d, want %d", c, p, want)
		}
	}
	if got := len(l.Active()); got != 9 {
		t.Errorf("active = %d, want 9", got)
	}

	actions.reset()
	l.Update(world.ChunkCoord{})
	if len(actions.loads) != 0 || len(actions.canceled) != 0 || actions.refreshed != 9 {
		t.Errorf("second update loaded %d, canceled %d, refreshed %d; want 0, 0, 9",
			len(actions.loads), len(actions.canceled), actions.refreshed)
	}
}

// TestLoaderSlide verifies a one chunk step swaps a single column
func TestLoaderSlide(t *testing.T) {
	actions := newFakeActions()
	l := NewLazyChunkLoader(actions, 1)
	l.Update(world.ChunkCoord{})
	actions.reset()

	l.Update(world.ChunkCoord{X: 1})
	if len(actions.canceled) != 3 || len(actions.loads) != 3 || actions.refreshed != 6 {
		t.Fatalf("canceled %d, loaded %d, refreshed %d; want 3, 3, 6",
			len(actions.canceled), len(actions.loads), actions.refreshed)
	}
	for _, c := range actions.canceled {
		if c.X != -1 {
			t.Errorf("canceled %v, want only column -1", c)
		}
	}
	for _, c := range actions.loads {
		if c.X != 2 {
			t.Errorf("loaded %v, want only column 2", c)
		}
	}
	if p := actions.priorities[world.ChunkCoord{X: 0, Z: 1}]; p != 2 {
		t.Errorf("priority of (0,1) = %d after moving, want 2", p)
	}
}

// TestLoaderJump verifies moving beyond the render distance replaces every chunk
func TestLoaderJump(t *testing.T) {
	actions := newFakeActions()
	l := NewLazyChunkLoader(actions, 1)
	l.Update(world.ChunkCoord{})
	actions.reset()

	l.Update(world.ChunkCoord{X: 5})
	if len(actions.canceled) != 9 || len(actions.loads) != 9 {
		t.Fatalf("canceled %d, loaded %d; want 9, 9", len(actions.canceled), len(actions.loads))
	}
	for _, c := range l.Active() {
		if abs(c.X-5) > 1 || abs(c.Z) > 1 {
			t.Errorf("%v active after jump", c)
		}
	}
}

// TestLoaderShrinkAndClose verifies a smaller radius evicts on the next update
// and Close cancels the rest
func TestLoaderShrinkAndClose(t *testing.T) {
	actions := newFakeActions()
	l := NewLazyChunkLoader(actions, 2)
	l.Update(world.ChunkCoord{})
	if got := len(l.Active()); got != 25 {
		t.Fatalf("active = %d, want 25", got)
	}

	l.SetRenderDistance(0)
	actions.reset()
	l.Update(world.ChunkCoord{})
	if len(actions.canceled) != 24 || !l.IsActive(world.ChunkCoord{}) {
		t.Fatalf("canceled %d, want 24 with the centre kept", len(actions.canceled))
	}

	actions.reset()
	l.Close()
	l.Close()
	if len(actions.canceled) != 1 || len(l.Active()) != 0 {
		t.Errorf("Close canceled %d, %d still active", len(actions.canceled), len(l.Active()))
	}
	l.Update(world.ChunkCoord{X: 9})
	if len(actions.loads) != 0 {
		t.Error("Update after Close loaded chunks")
	}
}

// TestLoaderNegativeDistance verifies a negative radius behaves like zero
func TestLoaderNegativeDistance(t *testing.T) {
	actions := newFakeActions()
	l := NewLazyChunkLoader(actions, -3)
	l.Update(world.ChunkCoord{X: 2, Z: 2})
	if l.RenderDistance() != 0 || len(actions.loads) != 1 {
		t.Errorf("distance %d loaded %d, want 0 and 1", l.RenderDistance(), len(actions.loads))
	}
}
