package reporting

import (
	"strings"

	. "rmatrack/internal/models"
	"rmatrack/internal/utils"
)

type Summary struct {
	BucketCounts
	TotalForms            int `json:"totalForms"`
	TotalReturns          int `json:"totalReturns"`
	CompletedTests        int `json:"completedTests"`
	AverageResolutionDays int `json:"averageResolutionTime"`
	ResolutionRatePercent int `json:"resolutionRate"`
	SuccessRatePercent    int `json:"successRate"`
}

type Aggregator struct {
	dates *utils.DateValidator
}

func NewAggregator() *Aggregator {
	return &Aggregator{dates: utils.NewDateValidator()}
}

// Summarize folds the reconciled buckets and the outcomes into the dashboard
// figures.
func (a *Aggregator) Summarize(cases []ReturnCase, outcomes []TestOutcome, counts BucketCounts) Summary {
	totalForms := 0
	for _, c := range cases {
		if strings.TrimSpace(c.CustomerName) != "" {
			totalForms++
		}
	}

	completed := len(outcomes)

	summary := Summary{
		BucketCounts:          counts,
		TotalForms:            totalForms,
		TotalReturns:          totalForms,
		CompletedTests:        completed,
		AverageResolutionDays: a.averageResolutionDays(outcomes),
	}

	if totalForms > 0 {
		summary.ResolutionRatePercent = utils.RoundHalfUp(float64(completed) / float64(totalForms) * 100)
	}

	if completed > 0 {
		summary.SuccessRatePercent = utils.RoundHalfUp(float64(counts.NoIssuesFound) / float64(completed) * 100)
	}

	return summary
}

// averageResolutionDays is the rounded mean of the whole-day gap between
// order and test. An outcome whose order date is missing, or whose dates do
// not parse, contributes zero days but still counts toward the mean.
func (a *Aggregator) averageResolutionDays(outcomes []TestOutcome) int {
	if len(outcomes) == 0 {
		return 0
	}

	total := 0
	for _, outcome := range outcomes {
		tested, ok := a.dates.Parse(outcome.TestedDate)
		if !ok {
			continue
		}
		ordered, ok := a.dates.Parse(outcome.OrderDate)
		if !ok {
			continue
		}
		total += utils.DaysBetween(tested, ordered)
	}

	return utils.RoundHalfUp(float64(total) / float64(len(outcomes)))
}

// Report runs reconciliation and aggregation in one pass.
func (a *Aggregator) Report(cases []ReturnCase, outcomes []TestOutcome) Summary {
	return a.Summarize(cases, outcomes, Reconcile(cases, outcomes))
}
