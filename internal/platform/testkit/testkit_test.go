package testkit

import (
	"sync"
	"testing"
	"time"
)

var window = 25

func TestAssertions(t *testing.T) {
	MustPanic(t, func() { panic("wax") })
	MustContain(t, `{"level":"info","message":"candle lit"}`, "candle lit")
}

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &window, 5)
		if window != 5 {
			t.Fatalf("window = %d", window)
		}
	})
	if window != 25 {
		t.Fatalf("window not restored: %d", window)
	}
}

func TestSerial_Excludes(t *testing.T) {
	var (
		mu      sync.Mutex
		inside  int
		overlap bool
		wg      sync.WaitGroup
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.Run("serial", func(t *testing.T) {
				Serial(t)
				mu.Lock()
				inside++
				overlap = overlap || inside > 1
				mu.Unlock()
				time.Sleep(2 * time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	if overlap {
		t.Fatal("serial sections overlapped")
	}
}
