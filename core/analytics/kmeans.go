package analytics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	kmeansRestarts = 10
	kmeansMaxIter  = 300
)

type kmeansResult struct {
	labels    []int
	centroids [][]float64
	inertia   float64
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// nearest returns the index of the closest centroid; ties go to the lowest index.
func nearest(p []float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// seedPlusPlus picks k initial centroids with the k-means++ strategy.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(len(points))]))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			_, d := nearest(p, centroids)
			dists[i] = d
			total += d
		}

		next := rng.Intn(len(points)) // every point already is a centroid
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dists {
				target -= d
				if target <= 0 && d > 0 {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, clone(points[next]))
	}
	return centroids
}

// lloyd refines centroids until assignments settle or kmeansMaxIter is reached.
// An emptied cluster keeps its previous centroid.
func lloyd(points [][]float64, centroids [][]float64) kmeansResult {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	dim := len(points[0])

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			c, _ := nearest(p, centroids)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float64, len(centroids))
		counts := make([]int, len(centroids))
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centroids[labels[i]])
	}
	return kmeansResult{labels: labels, centroids: centroids, inertia: inertia}
}

// kmeans partitions points into k clusters, keeping the lowest inertia over kmeansRestarts runs.
// The outcome only depends on the points and seed.
func kmeans(points [][]float64, k int, seed int64) kmeansResult {
	rng := rand.New(rand.NewSource(seed))
	var best kmeansResult
	for run := 0; run < kmeansRestarts; run++ {
		res := lloyd(points, seedPlusPlus(points, k, rng))
		if run == 0 || res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

func clone(p []float64) []float64 {
	c := make([]float64, len(p))
	copy(c, p)
	return c
}
