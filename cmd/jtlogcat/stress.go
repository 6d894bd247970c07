package main

import (
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/opencoff/go-jtlog"
)

// stress drives n goroutines, each tagged with its own uuid so
// concurrent records are distinguishable in the resulting tree, each
// emitting calls log calls under a per-goroutine node — the
// goroutine-storm shape of opencoff-go-logger's TestConcurrent,
// generalized to jtlog's tree (one node per identity instead of one
// shared io.Writer).
func stress(n, calls int) []string {
	var wg sync.WaitGroup
	ids := make([]string, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		id := uuid.NewV4().String()
		ids[i] = id
		go func(id string) {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				jtlog.Log(jtlog.Info, "%1worker %s call %d", id, id, j)
			}
		}(id)
	}
	wg.Wait()
	return ids
}
