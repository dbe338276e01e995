package engine

import (
	"sync"
)

// shardBounds splits n items into at most `workers` contiguous [start,end)
// ranges of near-equal size.
func shardBounds(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	bounds := make([][2]int, 0, workers)
	if n == 0 {
		return bounds
	}
	size := n / workers
	rem := n % workers
	start := 0
	for i := 0; i < workers; i++ {
		end := start + size
		if i < rem {
			end++
		}
		bounds = append(bounds, [2]int{start, end})
		start = end
	}
	return bounds
}

// RunSharded applies fn concurrently over contiguous shards of items and
// merges outputs and reports in shard order. With items pre-sorted by
// account id and fn order-preserving within a shard, the merged output is
// byte-identical regardless of worker count.
func RunSharded[I, O any](workers int, items []I, fn func(shard []I, rep *RunReport) []O) ([]O, RunReport) {
	bounds := shardBounds(len(items), workers)

	outs := make([][]O, len(bounds))
	reps := make([]RunReport, len(bounds))

	var wg sync.WaitGroup
	for i, b := range bounds {
		wg.Add(1)
		go func(i int, b [2]int) {
			defer wg.Done()
			outs[i] = fn(items[b[0]:b[1]], &reps[i])
		}(i, b)
	}
	wg.Wait()

	var merged []O
	var report RunReport
	for i := range bounds {
		merged = append(merged, outs[i]...)
		report.Merge(reps[i])
	}
	return merged, report
}
