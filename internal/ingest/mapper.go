package ingest

import (
	"fmt"
	"regexp"
	"strings"

	. "rmatrack/internal/models"
)

// Field is a canonical ReturnCase field that can be read from a sheet.
type Field string

const (
	FieldCaseID            Field = "caseId"
	FieldCustomerName      Field = "customerName"
	FieldCustomerPhone     Field = "customerPhone"
	FieldInvoice           Field = "invoice"
	FieldProductName       Field = "productName"
	FieldIssueDescription  Field = "issueDescription"
	FieldReturnAddress     Field = "returnAddress"
	FieldOrderDate         Field = "orderDate"
	FieldOrderedFrom       Field = "orderedFrom"
	FieldTrackingNumber    Field = "trackingNumber"
	FieldWorkflowStatus    Field = "workflowStatus"
	FieldSourceStatus      Field = "sourceStatus"
	FieldReplacementStatus Field = "replacementStatus"
)

// DefaultColumns is the header each canonical field is read from in the
// returns export. The sheet also carries columns no case field uses
// (Product SKU, Week, Month, ...); those are ignored.
var DefaultColumns = map[Field]string{
	FieldCaseID:            "RMA ID",
	FieldCustomerName:      "Name on the invoice",
	FieldCustomerPhone:     "Contact Number",
	FieldInvoice:           "Attach your invoice",
	FieldProductName:       "Product Name (as per invoice)",
	FieldIssueDescription:  "Issue you're facing",
	FieldReturnAddress:     "Full Address for Return Pick Up",
	FieldOrderDate:         "Date of Purchase",
	FieldOrderedFrom:       "Purchased From",
	FieldTrackingNumber:    "Tracking Number",
	FieldWorkflowStatus:    "Returns Status",
	FieldSourceStatus:      "RMA Status",
	FieldReplacementStatus: "Replacement Status",
}

const (
	DefaultIDOffset = 32
	DefaultIDWidth  = 4
)

var rmaPattern = regexp.MustCompile(`(?i)RMA/\d+`)

// Mapper turns raw sheet rows into ReturnCases. IDOffset and IDWidth shape
// the synthesized id of a row with no recoverable RMA number.
type Mapper struct {
	Columns  map[Field]string
	IDOffset int
	IDWidth  int
}

func NewMapper(idOffset, idWidth int) *Mapper {
	if idWidth <= 0 {
		idWidth = DefaultIDWidth
	}
	return &Mapper{
		Columns:  DefaultColumns,
		IDOffset: idOffset,
		IDWidth:  idWidth,
	}
}

func DefaultMapper() *Mapper {
	return NewMapper(DefaultIDOffset, DefaultIDWidth)
}

func (m *Mapper) value(row Row, field Field) string {
	header, ok := m.Columns[field]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[header])
}

// MapRow builds the case for row, which sits at rowIndex among the surviving
// (non-blank) rows of the sheet. It never fails; missing columns become
// empty strings.
func (m *Mapper) MapRow(row Row, rowIndex int) ReturnCase {
	invoice := m.value(row, FieldInvoice)

	workflowStatus := WorkflowStatus(m.value(row, FieldWorkflowStatus))
	if workflowStatus == "" {
		workflowStatus = WorkflowPending
	}

	return ReturnCase{
		CaseID:           m.caseID(row, rowIndex),
		CustomerName:     m.value(row, FieldCustomerName),
		CustomerPhone:    m.value(row, FieldCustomerPhone),
		ProductName:      m.value(row, FieldProductName),
		IssueDescription: m.value(row, FieldIssueDescription),
		WorkflowStatus:   workflowStatus,
		SourceStatus:     m.value(row, FieldSourceStatus),
		OrderedFrom:      m.value(row, FieldOrderedFrom),
		OrderDate:        m.value(row, FieldOrderDate),
		InvoiceRef:       invoice,
		InvoiceLink:      invoice,
		ReturnAddress:    m.value(row, FieldReturnAddress),
	}
}

func (m *Mapper) caseID(row Row, rowIndex int) string {
	if id := m.value(row, FieldCaseID); id != "" {
		return id
	}

	for _, field := range []Field{FieldTrackingNumber, FieldReplacementStatus} {
		if match := rmaPattern.FindString(m.value(row, field)); match != "" {
			return match
		}
	}

	return m.SynthesizeID(rowIndex)
}

func (m *Mapper) SynthesizeID(rowIndex int) string {
	return fmt.Sprintf("RMA/%0*d", m.IDWidth, rowIndex+m.IDOffset)
}
