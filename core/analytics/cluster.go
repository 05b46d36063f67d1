package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/trezcool/obe/core"
	"github.com/trezcool/obe/core/outcome"
)

// ClusterCount is the number of performance tiers courses are grouped into.
const ClusterCount = 3

// Cluster labels.
const (
	LabelHigh   = "High performance"
	LabelMedium = "Medium performance"
	LabelLow    = "Low performance"
)

// ClusterRow holds the features of one course and the performance tier it belongs to.
// Cluster 0 is always the best performing tier.
type ClusterRow struct {
	CourseCode      string  `json:"course_code"`
	AvgScore        float64 `json:"avg_score"`
	ScoreStd        float64 `json:"score_std"`
	AssessmentCount int     `json:"assessment_count"`
	AvgStudents     float64 `json:"avg_students"`
	Cluster         int     `json:"cluster"`
	Label           string  `json:"label"`
}

// clusterLabels returns the labels of n clusters ranked best first.
func clusterLabels(n int) []string {
	switch n {
	case 1:
		return []string{LabelMedium}
	case 2:
		return []string{LabelHigh, LabelLow}
	default:
		return []string{LabelHigh, LabelMedium, LabelLow}
	}
}

const (
	numFeatures       = 4
	constantTolerance = 1e-9
)

// courseFeatures computes [avg score, score std, assessment count, avg students] per course, ascending by code.
// The std of a single record course is NaN.
func courseFeatures(recs []outcome.AssessmentRecord) ([]string, [][]float64) {
	scores := make(map[string][]float64)
	students := make(map[string][]float64)
	for _, rec := range recs {
		scores[rec.CourseCode] = append(scores[rec.CourseCode], rec.MeanScore)
		students[rec.CourseCode] = append(students[rec.CourseCode], float64(rec.Participants))
	}

	codes := make([]string, 0, len(scores))
	for code := range scores {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	features := make([][]float64, len(codes))
	for i, code := range codes {
		s := scores[code]
		std := math.NaN()
		if len(s) > 1 {
			std = stat.StdDev(s, nil)
		}
		features[i] = []float64{stat.Mean(s, nil), std, float64(len(s)), stat.Mean(students[code], nil)}
	}
	return codes, features
}

// impute replaces NaN values with the mean of the defined values of their column (0 when none is).
func impute(features [][]float64) {
	for col := 0; col < numFeatures; col++ {
		var sum float64
		var n int
		for _, row := range features {
			if !math.IsNaN(row[col]) {
				sum += row[col]
				n++
			}
		}
		var fill float64
		if n > 0 {
			fill = sum / float64(n)
		}
		for _, row := range features {
			if math.IsNaN(row[col]) {
				row[col] = fill
			}
		}
	}
}

// standardize returns the z-scores of every column (population std); constant columns become 0.
// Rounding noise (eg. equal std-devs computed from different values) does not count as variance.
func standardize(features [][]float64) [][]float64 {
	scaled := make([][]float64, len(features))
	for i := range scaled {
		scaled[i] = make([]float64, numFeatures)
	}
	col := make([]float64, len(features))
	for c := 0; c < numFeatures; c++ {
		for i, row := range features {
			col[i] = row[c]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std <= constantTolerance*math.Max(1, math.Abs(mean)) {
			continue
		}
		for i := range features {
			scaled[i][c] = (col[i] - mean) / std
		}
	}
	return scaled
}

// rankClusters renumbers raw k-means labels so that 0 is the cluster with the highest mean avg score.
func rankClusters(labels []int, avgScores []float64) ([]int, int) {
	type clusterStat struct {
		raw  int
		sum  float64
		size int
	}
	stats := make(map[int]*clusterStat)
	for i, l := range labels {
		cs, ok := stats[l]
		if !ok {
			cs = &clusterStat{raw: l}
			stats[l] = cs
		}
		cs.sum += avgScores[i]
		cs.size++
	}

	ranked := make([]*clusterStat, 0, len(stats))
	for _, cs := range stats {
		ranked = append(ranked, cs)
	}
	sort.Slice(ranked, func(i, j int) bool {
		mi := ranked[i].sum / float64(ranked[i].size)
		mj := ranked[j].sum / float64(ranked[j].size)
		if mi != mj {
			return mi > mj
		}
		return ranked[i].raw < ranked[j].raw
	})

	rank := make(map[int]int, len(ranked))
	for r, cs := range ranked {
		rank[cs.raw] = r
	}
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = rank[l]
	}
	return out, len(ranked)
}

// ClusterCourses groups courses into performance tiers with k-means over their standardized features.
// It returns nil when there are no records.
func ClusterCourses(recs []outcome.AssessmentRecord, seed int64) []ClusterRow {
	if len(recs) == 0 {
		return nil
	}

	codes, features := courseFeatures(recs)
	impute(features)

	k := ClusterCount
	if len(codes) < k {
		k = len(codes)
	}
	res := kmeans(standardize(features), k, seed)

	avgScores := make([]float64, len(features))
	for i, f := range features {
		avgScores[i] = f[0]
	}
	ranks, n := rankClusters(res.labels, avgScores)
	labels := clusterLabels(n)

	rows := make([]ClusterRow, len(codes))
	for i, code := range codes {
		f := features[i]
		rows[i] = ClusterRow{
			CourseCode:      code,
			AvgScore:        core.Round(f[0], 2),
			ScoreStd:        core.Round(f[1], 2),
			AssessmentCount: int(f[2]),
			AvgStudents:     core.Round(f[3], 2),
			Cluster:         ranks[i],
			Label:           labels[ranks[i]],
		}
	}
	return rows
}
