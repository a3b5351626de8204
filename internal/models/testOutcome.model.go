package models

// OutcomeKind is the tester's verdict. The string values are the ones
// persisted by earlier releases and must not change.
type OutcomeKind string

const (
	OutcomeMoreTestingNeeded OutcomeKind = "More testing needed"
	OutcomeReplacement       OutcomeKind = "Replacement"
	OutcomeNoIssuesFound     OutcomeKind = "No issues found"
	OutcomePhysicalDamage    OutcomeKind = "Physical Damage"
)

var OutcomeKinds = []OutcomeKind{
	OutcomeMoreTestingNeeded,
	OutcomeReplacement,
	OutcomeNoIssuesFound,
	OutcomePhysicalDamage,
}

func (k OutcomeKind) Valid() bool {
	switch k {
	case OutcomeMoreTestingNeeded, OutcomeReplacement, OutcomeNoIssuesFound, OutcomePhysicalDamage:
		return true
	}
	return false
}

// TestOutcome is one tester submission. Case fields are copied at submission
// time and are not kept in sync with later imports; CaseID is a weak
// reference that may outlive its case.
type TestOutcome struct {
	BaseUUIDModel
	CaseID           string      `gorm:"type:varchar(255);index" json:"rmaNumber"`
	CustomerName     string      `gorm:"type:text"               json:"customerName"`
	OrderNumber      string      `gorm:"type:text"               json:"orderNumber"`
	InvoiceRef       string      `gorm:"type:text"               json:"invoice"`
	CustomerPhone    string      `gorm:"type:text"               json:"customerPhone"`
	ProductSKU       string      `gorm:"type:text"               json:"productSkuId"`
	Kind             OutcomeKind `gorm:"type:text"               json:"testingStatus"`
	TestedDate       string      `gorm:"type:text"               json:"dateTested"`
	IssueDescription string      `gorm:"type:text"               json:"issueDescription"`
	OrderDate        string      `gorm:"type:text"               json:"dateOrdered"`
	Comments         string      `gorm:"type:text"               json:"additionalComments"`
	InvoiceLink      string      `gorm:"type:text"               json:"invoiceLink"`
	ReturnAddress    string      `gorm:"type:text"               json:"replacementAddress"`
}

func (TestOutcome) TableName() string {
	return "test_outcomes"
}
