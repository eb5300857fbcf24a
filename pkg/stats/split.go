package stats

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

func shuffled(n int, seed uint64) []int {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.Perm(n)
}

// Split partitions n row indices into train and test sets. The same
// seed always yields the same partition.
func Split(n int, testFraction float64, seed uint64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 rows to split, got %d", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}

	size := int(math.Ceil(float64(n) * testFraction))
	if size >= n {
		size = n - 1
	}

	idx := shuffled(n, seed)
	return idx[size:], idx[:size], nil
}

// KFold partitions n row indices into k folds of near-equal size.
func KFold(n, k int, seed uint64) ([][]int, error) {
	if k < 2 {
		return nil, errors.New("k-fold requires at least 2 folds")
	}
	if n < k {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", n, k)
	}

	idx := shuffled(n, seed)
	folds := make([][]int, k)
	start := 0
	for i := range k {
		size := n / k
		if i < n%k {
			size++
		}
		folds[i] = idx[start : start+size]
		start += size
	}
	return folds, nil
}
