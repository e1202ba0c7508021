package gen

import (
	"errors"
	"fmt"
	"slices"
)

var errCycle = errors.New("types form a cycle")

// topoSort orders the indices 0..n-1 so that every index comes after the
// indices before(i) returns. Among the indices ready at any point the
// smallest goes first, which keeps schema order wherever it is free.
func topoSort(n int, before func(i int) []int) ([]int, error) {
	waiting := make([]int, n)
	after := make([][]int, n)

	for i := range n {
		for _, d := range before(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("index %d depends on %d, out of range", i, d)
			}

			waiting[i]++
			after[d] = append(after[d], i)
		}
	}

	var ready []int

	for i, w := range waiting {
		if w == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, i)

		for _, j := range after[i] {
			if waiting[j]--; waiting[j] == 0 {
				k, _ := slices.BinarySearch(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	if len(order) != n {
		return nil, errCycle
	}

	return order, nil
}
