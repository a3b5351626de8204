package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SubmitOutcomeRequest struct {
	ID          string      `json:"id"`
	CaseID      string      `json:"rmaNumber"`
	ProductSKU  string      `json:"productSkuId"`
	OutcomeKind OutcomeKind `json:"testingStatus"`
	Comments    string      `json:"additionalComments"`
}

// OutcomeFilter narrows the outcome history. From and To are calendar dates
// (YYYY-MM-DD); both bounds are inclusive.
type OutcomeFilter struct {
	Query string `query:"q"`
	From  string `query:"from"`
	To    string `query:"to"`
}

type SystemStatus struct {
	CaseCount    int64        `json:"rmaRecords"`
	OutcomeCount int64        `json:"testResults"`
	LastUpload   *ImportBatch `json:"lastUpload"`
}

type PortalLookup struct {
	Case    ReturnCase   `json:"rma"`
	Outcome *TestOutcome `json:"testResult"`
	ETA     string       `json:"eta"`
}
