package returnsController

import (
	"context"
	"encoding/csv"
	"io"
	. "rmatrack/internal/models"
)

var caseExportHeaders = []string{
	"RMA Number",
	"Customer Name",
	"Product Name",
	"Issue Description",
	"Date Received",
	"Status",
	"Original Status",
	"Ordered From",
	"Date Ordered",
	"Customer Phone",
	"Order Number",
	"Invoice",
	"Invoice Link",
	"Replacement Address",
}

var outcomeExportHeaders = []string{
	"Customer Name",
	"Order Number",
	"Invoice",
	"Customer Phone Number",
	"RMA Number",
	"Date Tested",
	"Product SKU ID",
	"Test Result",
	"Issue Description",
	"Date Ordered",
	"Invoice Link",
	"Replacement Address",
	"Additional Comments",
}

func (rc *ReturnsController) ExportCases(ctx context.Context, w io.Writer) error {
	log := rc.log.Function("ExportCases")

	cases, err := rc.ListCases(ctx)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(cases)+1)
	records = append(records, caseExportHeaders)
	for _, c := range cases {
		records = append(records, []string{
			c.CaseID,
			c.CustomerName,
			c.ProductName,
			c.IssueDescription,
			c.ReceivedDate,
			string(c.WorkflowStatus),
			c.SourceStatus,
			c.OrderedFrom,
			c.OrderDate,
			c.CustomerPhone,
			c.OrderNumber,
			c.InvoiceRef,
			c.InvoiceLink,
			c.ReturnAddress,
		})
	}

	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		return log.Err("failed to write cases export", err)
	}
	return nil
}

func (rc *ReturnsController) ExportOutcomes(ctx context.Context, w io.Writer, filter OutcomeFilter) error {
	log := rc.log.Function("ExportOutcomes")

	outcomes, err := rc.ListOutcomes(ctx, filter)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(outcomes)+1)
	records = append(records, outcomeExportHeaders)
	for _, o := range outcomes {
		records = append(records, []string{
			o.CustomerName,
			o.OrderNumber,
			o.InvoiceRef,
			o.CustomerPhone,
			o.CaseID,
			o.TestedDate,
			o.ProductSKU,
			string(o.Kind),
			o.IssueDescription,
			o.OrderDate,
			o.InvoiceLink,
			o.ReturnAddress,
			o.Comments,
		})
	}

	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		return log.Err("failed to write outcomes export", err)
	}
	return nil
}
