package profiling

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTrackCounts(t *testing.T) {
	Reset()
	defer Reset()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Track("test.stage")()
		}()
	}
	wg.Wait()

	s := Snapshot()["test.stage"]
	if s.Count != 10 {
		t.Errorf("count = %d, want 10", s.Count)
	}
	if s.Total < 0 {
		t.Errorf("total = %v", s.Total)
	}
}

func TestSummaryOrder(t *testing.T) {
	Reset()
	defer Reset()

	mu.Lock()
	buckets["world.noise"] = Stat{Count: 4, Total: 400 * time.Millisecond}
	buckets["world.erode"] = Stat{Count: 2, Total: 3 * time.Second}
	buckets["world.mesh"] = Stat{Count: 1, Total: 250 * time.Microsecond}
	mu.Unlock()

	got := Summary(2)
	want := "world.erode:3s/2 (1.5s), world.noise:400ms/4 (100ms)"
	if got != want {
		t.Errorf("Summary(2) = %q, want %q", got, want)
	}
	if all := Summary(0); strings.Count(all, ",") != 2 || !strings.HasSuffix(all, "world.mesh:250µs/1 (250µs)") {
		t.Errorf("Summary(0) = %q", all)
	}
}

func TestStatMean(t *testing.T) {
	if (Stat{}).Mean() != 0 {
		t.Error("empty stat mean should be 0")
	}
	if got := (Stat{Count: 4, Total: time.Second}).Mean(); got != 250*time.Millisecond {
		t.Errorf("mean = %v", got)
	}
}
