package analytics

import (
	"github.com/trezcool/obe/core"
)

// Readiness statuses.
const (
	ReadinessReady          = "ready"
	ReadinessNeedsWork      = "needs improvement"
	ReadinessNeedsSupport   = "needs significant support"
	readinessReadyThreshold = 80
	readinessWorkThreshold  = 70
)

type (
	// OutcomeScore is one score obtained by a student on a program outcome.
	OutcomeScore struct {
		Outcome string  `json:"outcome" validate:"required,code"`
		Score   float64 `json:"score" validate:"gte=0,lte=100"`
	}

	OutcomeReadiness struct {
		Outcome   string  `json:"outcome"`
		Average   float64 `json:"average"`
		Weight    float64 `json:"weight"`
		Readiness float64 `json:"readiness"`
	}

	Readiness struct {
		Overall  float64            `json:"overall"`
		Status   string             `json:"status"`
		Outcomes []OutcomeReadiness `json:"outcomes"`
	}
)

func readinessStatus(overall float64) string {
	switch {
	case overall >= readinessReadyThreshold:
		return ReadinessReady
	case overall >= readinessWorkThreshold:
		return ReadinessNeedsWork
	default:
		return ReadinessNeedsSupport
	}
}

// GraduationReadiness normalizes the average score of every outcome against the configured target,
// weighting key outcomes, and caps each outcome and the overall readiness at 100.
// Outcomes are reported in order of first appearance.
func (svc *Service) GraduationReadiness(scores []OutcomeScore) Readiness {
	keys := make(map[string]bool, len(svc.conf.KeyOutcomes))
	for _, k := range svc.conf.KeyOutcomes {
		keys[core.CleanCode(k)] = true
	}
	target := svc.conf.ReadinessTarget
	if target <= 0 {
		target = 80
	}

	var order []string
	accs := make(map[string]*meanAcc)
	for _, s := range scores {
		code := core.CleanCode(s.Outcome)
		acc, ok := accs[code]
		if !ok {
			acc = new(meanAcc)
			accs[code] = acc
			order = append(order, code)
		}
		acc.add(s.Score)
	}

	res := Readiness{Outcomes: make([]OutcomeReadiness, 0, len(order))}
	var total meanAcc
	for _, code := range order {
		avg := accs[code].mean()
		weight := 1.0
		if keys[code] {
			weight = svc.conf.KeyOutcomeWeight
		}
		r := min(100, avg/target*100*weight)
		total.add(r)
		res.Outcomes = append(res.Outcomes, OutcomeReadiness{
			Outcome:   code,
			Average:   core.Round(avg, 2),
			Weight:    weight,
			Readiness: core.Round(r, 2),
		})
	}
	res.Overall = core.Round(min(100, total.mean()), 2)
	res.Status = readinessStatus(res.Overall)
	return res
}
