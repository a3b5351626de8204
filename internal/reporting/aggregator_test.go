package reporting

import (
	"testing"

	. "rmatrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_Empty(t *testing.T) {
	summary := NewAggregator().Report(nil, nil)

	assert.Equal(t, 0, summary.TotalForms)
	assert.Equal(t, 0, summary.CompletedTests)
	assert.Equal(t, 0, summary.AverageResolutionDays)
	assert.Equal(t, 0, summary.ResolutionRatePercent)
	assert.Equal(t, 0, summary.SuccessRatePercent)
}

func TestSummarize_ZeroFormsWithOutcomes(t *testing.T) {
	cases := []ReturnCase{{CaseID: "RMA/1"}}
	outcomes := []TestOutcome{{CaseID: "RMA/1", Kind: OutcomeNoIssuesFound, TestedDate: "3/7/2024"}}

	summary := NewAggregator().Report(cases, outcomes)

	assert.Equal(t, 0, summary.TotalForms)
	assert.Equal(t, 0, summary.ResolutionRatePercent)
	assert.Equal(t, 100, summary.SuccessRatePercent)
}

func TestSummarize_AverageResolutionDays(t *testing.T) {
	outcomes := []TestOutcome{
		{CaseID: "RMA/1", TestedDate: "3/7/2024", OrderDate: "2024-03-05"},
		{CaseID: "RMA/2", TestedDate: "3/7/2024", OrderDate: "2024-03-11"},
	}

	summary := NewAggregator().Report(nil, outcomes)
	assert.Equal(t, 3, summary.AverageResolutionDays)
}

func TestSummarize_MissingOrderDateContributesZero(t *testing.T) {
	outcomes := []TestOutcome{
		{CaseID: "RMA/1", TestedDate: "3/7/2024", OrderDate: "2024-03-01"},
		{CaseID: "RMA/2", TestedDate: "3/7/2024"},
		{CaseID: "RMA/3", TestedDate: "3/7/2024", OrderDate: "sometime"},
	}

	// (6 + 0 + 0) / 3
	summary := NewAggregator().Report(nil, outcomes)
	assert.Equal(t, 2, summary.AverageResolutionDays)
}

func TestSummarize_Rates(t *testing.T) {
	cases := []ReturnCase{
		{CaseID: "RMA/1", CustomerName: "Asha"},
		{CaseID: "RMA/2", CustomerName: "Ravi"},
		{CaseID: "RMA/3", CustomerName: "Meera"},
		{CaseID: "RMA/4", CustomerName: "  "},
	}
	outcomes := []TestOutcome{
		{CaseID: "RMA/1", Kind: OutcomeNoIssuesFound},
		{CaseID: "RMA/2", Kind: OutcomeReplacement},
	}

	summary := NewAggregator().Report(cases, outcomes)

	assert.Equal(t, 3, summary.TotalForms)
	assert.Equal(t, 3, summary.TotalReturns)
	assert.Equal(t, 2, summary.CompletedTests)
	// 2/3 = 66.67%
	assert.Equal(t, 67, summary.ResolutionRatePercent)
	assert.Equal(t, 50, summary.SuccessRatePercent)
	// RMA/3 and RMA/4 have blank sheet statuses.
	assert.Equal(t, 2, summary.Pending)
	assert.Equal(t, 2, summary.Unresolved)
}

func TestSummarize_RoundHalfUp(t *testing.T) {
	cases := make([]ReturnCase, 8)
	for i := range cases {
		cases[i] = ReturnCase{CaseID: string(rune('A' + i)), CustomerName: "x"}
	}
	outcomes := []TestOutcome{{CaseID: "A"}}

	// 1/8 = 12.5% rounds up.
	summary := NewAggregator().Report(cases, outcomes)
	assert.Equal(t, 13, summary.ResolutionRatePercent)
}

func TestCustomerETA(t *testing.T) {
	assert.Equal(t, "1-2 business days", CustomerETA(nil))
	assert.Equal(t, "2-3 business days", CustomerETA(&TestOutcome{Kind: OutcomeMoreTestingNeeded}))
	assert.Equal(t, "5-7 business days", CustomerETA(&TestOutcome{Kind: OutcomeReplacement}))
	assert.Equal(t, "Completed", CustomerETA(&TestOutcome{Kind: OutcomeNoIssuesFound}))
	assert.Equal(t, "3-5 business days", CustomerETA(&TestOutcome{Kind: OutcomePhysicalDamage}))
}
