package tool

import (
	"math"
	"math/rand"
	"sort"
)

// A small CART-style random forest: bootstrap sampling, gini splits, and a
// random feature subset per split. Deterministic given a seeded rand source.

type treeNode struct {
	leaf      bool
	prob      float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

type forest struct {
	trees       []*treeNode
	importances []float64
}

type forestConfig struct {
	trees    int
	maxDepth int
	minLeaf  int
}

func trainForest(x [][]float64, y []bool, cfg forestConfig, rng *rand.Rand) *forest {
	nFeatures := len(x[0])
	f := &forest{importances: make([]float64, nFeatures)}

	mtry := int(math.Max(1, math.Floor(math.Sqrt(float64(nFeatures)))))

	for i := 0; i < cfg.trees; i++ {
		indices := make([]int, len(x))
		for j := range indices {
			indices[j] = rng.Intn(len(x))
		}
		root := growTree(x, y, indices, 0, cfg, mtry, rng, f.importances)
		f.trees = append(f.trees, root)
	}

	// Normalize accumulated impurity decreases to sum to 1.
	var total float64
	for _, v := range f.importances {
		total += v
	}
	if total > 0 {
		for i := range f.importances {
			f.importances[i] /= total
		}
	}

	return f
}

func growTree(x [][]float64, y []bool, indices []int, depth int, cfg forestConfig, mtry int, rng *rand.Rand, importances []float64) *treeNode {
	prob := positiveRate(y, indices)
	if depth >= cfg.maxDepth || len(indices) < 2*cfg.minLeaf || prob == 0 || prob == 1 {
		return &treeNode{leaf: true, prob: prob}
	}

	feature, threshold, gain, ok := bestSplit(x, y, indices, mtry, cfg.minLeaf, rng)
	if !ok {
		return &treeNode{leaf: true, prob: prob}
	}

	var left, right []int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	importances[feature] += gain * float64(len(indices))

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growTree(x, y, left, depth+1, cfg, mtry, rng, importances),
		right:     growTree(x, y, right, depth+1, cfg, mtry, rng, importances),
	}
}

// bestSplit scans a random feature subset for the threshold with the largest
// gini decrease. Thresholds are midpoints between adjacent distinct values.
func bestSplit(x [][]float64, y []bool, indices []int, mtry, minLeaf int, rng *rand.Rand) (feature int, threshold, gain float64, ok bool) {
	nFeatures := len(x[0])
	parentGini := giniOf(y, indices)

	candidates := rng.Perm(nFeatures)[:mtry]
	bestGain := 0.0

	for _, f := range candidates {
		values := make([]float64, 0, len(indices))
		for _, i := range indices {
			values = append(values, x[i][f])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			mid := (values[v] + values[v-1]) / 2

			var left, right []int
			for _, i := range indices {
				if x[i][f] <= mid {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			if len(left) < minLeaf || len(right) < minLeaf {
				continue
			}

			n := float64(len(indices))
			weighted := float64(len(left))/n*giniOf(y, left) + float64(len(right))/n*giniOf(y, right)
			g := parentGini - weighted
			if g > bestGain {
				bestGain = g
				feature = f
				threshold = mid
				ok = true
			}
		}
	}

	return feature, threshold, bestGain, ok
}

func (f *forest) predict(row []float64) bool {
	var sum float64
	for _, t := range f.trees {
		sum += t.classify(row)
	}
	return sum/float64(len(f.trees)) >= 0.5
}

func (n *treeNode) classify(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}

func positiveRate(y []bool, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	var pos float64
	for _, i := range indices {
		if y[i] {
			pos++
		}
	}
	return pos / float64(len(indices))
}

func giniOf(y []bool, indices []int) float64 {
	p := positiveRate(y, indices)
	return 2 * p * (1 - p)
}
