package main

import (
	"runtime"
	"sync"
)

// scanPoint is one coarse grid sample.
type scanPoint struct {
	X        []float64 // normalized parameters
	Cost     float64
	Residual float64
}

// gridPoints returns steps^dim points spread evenly over the unit cube,
// cell centred so no point sits on a bound.
func gridPoints(dim, steps int) [][]float64 {
	if dim == 0 || steps < 1 {
		return nil
	}
	total := 1
	for i := 0; i < dim; i++ {
		total *= steps
	}
	points := make([][]float64, total)
	for n := range points {
		x := make([]float64, dim)
		k := n
		for d := 0; d < dim; d++ {
			x[d] = (float64(k%steps) + 0.5) / float64(steps)
			k /= steps
		}
		points[n] = x
	}
	return points
}

// runPool calls work(i) for every i in [0, n) on a fixed set of workers.
func runPool(n, numWorkers int, work func(i int)) {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	numWorkers = min(numWorkers, n)

	workChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workChan {
				work(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		workChan <- i
	}
	close(workChan)
	wg.Wait()
}

// scan evaluates every grid point concurrently and returns them in grid
// order.
func scan(fe *FitnessEvaluator, points [][]float64, numWorkers int) []scanPoint {
	results := make([]scanPoint, len(points))
	runPool(len(points), numWorkers, func(i int) {
		cost, residual := fe.evaluate(fe.params.Denormalize(points[i]))
		results[i] = scanPoint{X: points[i], Cost: cost, Residual: residual}
	})
	return results
}
