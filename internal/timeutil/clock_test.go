package timeutil

import (
	"sync"
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	before := time.Now()
	now := c.Now()
	if now.Before(before) {
		t.Errorf("Now() = %v, before %v", now, before)
	}
	if c.Since(before) < 0 {
		t.Error("Since() should not be negative")
	}
}

func TestMockClock(t *testing.T) {
	start := time.Date(2011, 1, 1, 8, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	if !c.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", c.Now(), start)
	}
	if got := c.Since(start.Add(-90 * time.Minute)); got != 90*time.Minute {
		t.Errorf("Since() = %v, want 90m", got)
	}
}

func TestMockClock_Concurrent(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewMockClock(start)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.Now().Equal(start) {
				t.Errorf("Now() changed under concurrent reads")
			}
		}()
	}
	wg.Wait()
}
