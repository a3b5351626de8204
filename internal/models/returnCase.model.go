package models

// WorkflowStatus is the UI-facing bucket of a case. Imported sheets may carry
// any raw value; only these three are styled specifically.
type WorkflowStatus string

const (
	WorkflowPending   WorkflowStatus = "Pending"
	WorkflowInTesting WorkflowStatus = "In Testing"
	WorkflowCompleted WorkflowStatus = "Completed"
)

// ReturnCase is one RMA record from the active import batch.
type ReturnCase struct {
	BaseModel
	CaseID           string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"rmaNumber"`
	CustomerName     string         `gorm:"type:text"                              json:"customerName"`
	CustomerPhone    string         `gorm:"type:text"                              json:"customerPhone"`
	ProductName      string         `gorm:"type:text"                              json:"productName"`
	IssueDescription string         `gorm:"type:text"                              json:"issueDescription"`
	ReceivedDate     string         `gorm:"type:text"                              json:"dateReceived"`
	WorkflowStatus   WorkflowStatus `gorm:"type:text"                              json:"status"`
	// SourceStatus is the sheet's raw "RMA Status" value; empty means not yet
	// processed.
	SourceStatus  string `gorm:"type:text" json:"originalStatus"`
	OrderedFrom   string `gorm:"type:text" json:"orderedFrom"`
	OrderDate     string `gorm:"type:text" json:"dateOrdered"`
	OrderNumber   string `gorm:"type:text" json:"orderNumber"`
	InvoiceRef    string `gorm:"type:text" json:"invoice"`
	InvoiceLink   string `gorm:"type:text" json:"invoiceLink"`
	ReturnAddress string `gorm:"type:text" json:"replacementAddress"`
}

func (ReturnCase) TableName() string {
	return "return_cases"
}
