package reporting

import (
	"strings"

	. "rmatrack/internal/models"
)

type Bucket int

const (
	BucketNone Bucket = iota
	BucketPending
	BucketMoreTestingRequired
	BucketPhysicalDamage
	BucketNoIssuesFound
	BucketReplacement
)

func (b Bucket) String() string {
	switch b {
	case BucketPending:
		return "Pending"
	case BucketMoreTestingRequired:
		return "MoreTestingRequired"
	case BucketPhysicalDamage:
		return "PhysicalDamage"
	case BucketNoIssuesFound:
		return "NoIssuesFound"
	case BucketReplacement:
		return "Replacement"
	case BucketNone:
		return "None"
	}
	return "Unknown"
}

// SourceStatus is a raw "RMA Status" value as written in the returns sheet.
type SourceStatus string

const (
	SourceUnprocessed    SourceStatus = ""
	SourceReplace        SourceStatus = "Replace"
	SourceNoIssue        SourceStatus = "No Issue"
	SourceTesting        SourceStatus = "testing"
	SourcePhysicalDamage SourceStatus = "Physical damage"
	SourceRepaired       SourceStatus = "Repaired"
	SourceUpgraded       SourceStatus = "Upgraded"
)

// SourceBucket classifies a trimmed, case-sensitive sheet status. Repaired
// and Upgraded are resolved outside the five buckets; anything unrecognised
// is excluded as well. Both report BucketNone.
func SourceBucket(raw string) Bucket {
	switch SourceStatus(strings.TrimSpace(raw)) {
	case SourceUnprocessed:
		return BucketPending
	case SourceReplace:
		return BucketReplacement
	case SourceNoIssue:
		return BucketNoIssuesFound
	case SourceTesting:
		return BucketMoreTestingRequired
	case SourcePhysicalDamage:
		return BucketPhysicalDamage
	case SourceRepaired, SourceUpgraded:
		return BucketNone
	}
	return BucketNone
}

// OutcomeBucket classifies a tester verdict. Unknown stored kinds report
// BucketNone.
func OutcomeBucket(kind OutcomeKind) Bucket {
	switch kind {
	case OutcomeMoreTestingNeeded:
		return BucketMoreTestingRequired
	case OutcomePhysicalDamage:
		return BucketPhysicalDamage
	case OutcomeNoIssuesFound:
		return BucketNoIssuesFound
	case OutcomeReplacement:
		return BucketReplacement
	}
	return BucketNone
}

type BucketCounts struct {
	Pending             int `json:"pendingTests"`
	MoreTestingRequired int `json:"moreTestingRequired"`
	PhysicalDamage      int `json:"physicalDamage"`
	NoIssuesFound       int `json:"noIssuesFound"`
	Replacement         int `json:"replacements"`
	Unresolved          int `json:"unresolved"`
	// Excluded counts cases and outcomes that landed in no bucket. It is
	// informational and feeds none of the rates.
	Excluded int `json:"excluded"`
}

func (c *BucketCounts) add(b Bucket) {
	switch b {
	case BucketPending:
		c.Pending++
	case BucketMoreTestingRequired:
		c.MoreTestingRequired++
	case BucketPhysicalDamage:
		c.PhysicalDamage++
	case BucketNoIssuesFound:
		c.NoIssuesFound++
	case BucketReplacement:
		c.Replacement++
	case BucketNone:
		c.Excluded++
	}
}

// Reconcile buckets the current cases and every stored outcome.
//
// A case with at least one outcome is never classified by its sheet status.
// Every outcome then adds to its own bucket, whether or not its case is still
// in the batch, so the totals are not a partition of the case set. Reports
// built on these numbers depend on that double count.
func Reconcile(cases []ReturnCase, outcomes []TestOutcome) BucketCounts {
	tested := make(map[string]struct{}, len(outcomes))
	for _, outcome := range outcomes {
		tested[outcome.CaseID] = struct{}{}
	}

	var counts BucketCounts
	for _, c := range cases {
		if _, ok := tested[c.CaseID]; ok {
			continue
		}
		counts.add(SourceBucket(c.SourceStatus))
	}

	for _, outcome := range outcomes {
		counts.add(OutcomeBucket(outcome.Kind))
	}

	counts.Unresolved = counts.Pending
	return counts
}
