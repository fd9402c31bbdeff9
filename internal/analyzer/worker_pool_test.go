package analyzer

import (
	"runtime"
	"sync"
	"testing"
)

func TestNewWorkerPool(t *testing.T) {
	pool := NewWorkerPool(4)
	if pool.Workers() != 4 {
		t.Errorf("Expected 4 workers, got %d", pool.Workers())
	}
}

func TestNewWorkerPool_ZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.Workers() != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), pool.Workers())
	}
}

func TestWorkerPool_GroupWait(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Close()

	var counter int
	var mu sync.Mutex

	group := pool.Group()
	for i := 0; i < 50; i++ {
		group.Submit(func() {
			mu.Lock()
			counter++
			mu.Unlock()
		})
	}
	group.Wait()

	if counter != 50 {
		t.Errorf("Expected counter to be 50, got %d", counter)
	}
}

func TestWorkerPool_StartOnce(t *testing.T) {
	pool := NewWorkerPool(2)

	pool.Start()
	pool.Start()
	defer pool.Close()

	executed := false
	group := pool.Group()
	group.Submit(func() {
		executed = true
	})
	group.Wait()

	if !executed {
		t.Error("Expected job to be executed")
	}
}

func TestWorkerPool_IndependentGroups(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	defer pool.Close()

	results := make([]int, 2)
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			group := pool.Group()
			for i := 0; i < 10; i++ {
				group.Submit(func() { results[g]++ })
			}
			group.Wait()
		}(g)
	}
	wg.Wait()

	if results[0] != 10 || results[1] != 10 {
		t.Errorf("Expected 10 jobs per group, got %v", results)
	}
}

func TestWorkerPool_CloseTwice(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	pool.Close()
	pool.Close()
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Close()

	ran := false
	group := pool.Group()
	group.Submit(func() { ran = true })
	group.Wait()

	if !ran {
		t.Error("Expected job submitted after Close to run inline")
	}
}

func TestWorkerPool_CloseDuringSubmit(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()

	var count int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			group := pool.Group()
			for i := 0; i < 50; i++ {
				group.Submit(func() {
					mu.Lock()
					count++
					mu.Unlock()
				})
			}
			group.Wait()
		}()
	}

	pool.Close()
	wg.Wait()

	if count != 8*50 {
		t.Errorf("Expected %d jobs to run, got %d", 8*50, count)
	}
}
