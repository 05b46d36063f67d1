package analytics

import (
	"sort"

	"github.com/trezcool/obe/core/outcome"
)

// OutcomePeriodSample is the aggregated score of one program outcome in one year/term half.
type OutcomePeriodSample struct {
	Outcome      string  `json:"outcome"`
	Year         int     `json:"year"`
	TermHalf     int     `json:"term_half"`
	Period       float64 `json:"period"`
	MeanScore    float64 `json:"mean_score"`
	Participants int     `json:"participants"`
}

// Period maps a year and term half onto a continuous half-year axis (2024/1 -> 2024.0, 2024/2 -> 2024.5).
func Period(year, termHalf int) float64 {
	return float64(year) + float64(termHalf-1)/2
}

type sampleKey struct {
	outcome  string
	year     int
	termHalf int
}

type sampleAcc struct {
	scoreSum     float64
	count        int
	participants int
}

// AggregateSeries joins records with the matrix on (course, course outcome) and
// groups them per (program outcome, year, term half). Unmapped records are dropped;
// a record mapped to several program outcomes counts once for each.
func AggregateSeries(recs []outcome.AssessmentRecord, matrix []outcome.MappingRow) []OutcomePeriodSample {
	if len(recs) == 0 {
		return []OutcomePeriodSample{}
	}

	type cloKey struct{ course, clo string }
	plosByClo := make(map[cloKey][]string, len(matrix))
	for _, m := range matrix {
		k := cloKey{m.CourseCode, m.CourseOutcomeCode}
		plosByClo[k] = append(plosByClo[k], m.ProgramOutcomeCode)
	}

	groups := make(map[sampleKey]*sampleAcc)
	for _, rec := range recs {
		for _, plo := range plosByClo[cloKey{rec.CourseCode, rec.CourseOutcomeCode}] {
			k := sampleKey{plo, rec.Year, rec.TermHalf}
			acc, ok := groups[k]
			if !ok {
				acc = new(sampleAcc)
				groups[k] = acc
			}
			acc.scoreSum += rec.MeanScore
			acc.count++
			acc.participants += rec.Participants
		}
	}

	samples := make([]OutcomePeriodSample, 0, len(groups))
	for k, acc := range groups {
		samples = append(samples, OutcomePeriodSample{
			Outcome:      k.outcome,
			Year:         k.year,
			TermHalf:     k.termHalf,
			Period:       Period(k.year, k.termHalf),
			MeanScore:    acc.scoreSum / float64(acc.count),
			Participants: acc.participants,
		})
	}
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Outcome != samples[j].Outcome {
			return samples[i].Outcome < samples[j].Outcome
		}
		return samples[i].Period < samples[j].Period
	})
	return samples
}

// seriesOf returns the samples of one outcome; `samples` must be sorted by (outcome, period).
func seriesOf(samples []OutcomePeriodSample, code string) []OutcomePeriodSample {
	var series []OutcomePeriodSample
	for _, s := range samples {
		if s.Outcome == code {
			series = append(series, s)
		}
	}
	return series
}

// splitByOutcome splits sorted samples into one series per outcome, in outcome order.
func splitByOutcome(samples []OutcomePeriodSample) [][]OutcomePeriodSample {
	var out [][]OutcomePeriodSample
	for i := 0; i < len(samples); {
		j := i
		for j < len(samples) && samples[j].Outcome == samples[i].Outcome {
			j++
		}
		out = append(out, samples[i:j])
		i = j
	}
	return out
}

func axes(series []OutcomePeriodSample) (periods, scores []float64) {
	periods = make([]float64, len(series))
	scores = make([]float64, len(series))
	for i, s := range series {
		periods[i] = s.Period
		scores[i] = s.MeanScore
	}
	return periods, scores
}
