package reporting

import . "rmatrack/internal/models"

// CustomerETA is the turnaround shown to a customer for their latest outcome.
func CustomerETA(outcome *TestOutcome) string {
	if outcome == nil {
		return "1-2 business days"
	}

	switch outcome.Kind {
	case OutcomeMoreTestingNeeded:
		return "2-3 business days"
	case OutcomeReplacement:
		return "5-7 business days"
	case OutcomeNoIssuesFound:
		return "Completed"
	case OutcomePhysicalDamage:
		return "3-5 business days"
	}
	return "1-2 business days"
}
