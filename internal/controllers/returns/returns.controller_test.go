package returnsController

import (
	"bytes"
	"context"
	"encoding/csv"
	"rmatrack/config"
	"rmatrack/internal/database"
	"rmatrack/internal/ingest"
	. "rmatrack/internal/models"
	"rmatrack/internal/repositories"
	"rmatrack/internal/services"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSheet = "RMA ID,Name on the invoice,Contact Number,Attach your invoice,Product Name (as per invoice),Issue you're facing,Date of Purchase,Tracking Number,RMA Status\n" +
	"RMA/0032,Asha Rao,9876500001,INV-100,Kreo Hive,Left click double clicks,2024-03-01,,Replace\n" +
	",Ravi Kumar,9876500002,INV-101,Kreo Chimera,Cable frayed,2024-03-05,AWB RMA/0200,\n" +
	" , , , , , , , , \n" +
	",Meera Shah,9876500003,INV-102,Kreo Swarm,RGB dead,2024-03-03,,testing\n"

type fixture struct {
	controller *ReturnsController
	cases      repositories.ReturnCaseRepository
	outcomes   repositories.TestOutcomeRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDbPath: ":memory:",
		RMAIDOffset:    32,
		RMAIDWidth:     4,
	}
	db, err := database.NewWithoutCache(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cases := repositories.NewReturnCase(db)
	outcomes := repositories.NewTestOutcome(db)
	controller := New(
		cases,
		outcomes,
		repositories.NewImportBatch(db),
		services.NewTransactionService(db),
		cfg,
	)
	controller.now = func() time.Time { return time.Date(2024, 3, 7, 15, 0, 0, 0, time.UTC) }

	return fixture{controller: controller, cases: cases, outcomes: outcomes}
}

func (f fixture) importSample(t *testing.T) {
	t.Helper()
	_, err := f.controller.ImportSheet(context.Background(), "sample.csv", strings.NewReader(sampleSheet))
	require.NoError(t, err)
}

func TestImportSheet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stats, err := f.controller.ImportSheet(ctx, "sample.csv", strings.NewReader(sampleSheet))
	require.NoError(t, err)
	assert.Equal(t, ImportBatchStats{TotalRowsSeen: 3, CasesProduced: 3}, stats)

	cases, err := f.controller.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, "RMA/0032", cases[0].CaseID)
	assert.Equal(t, "RMA/0200", cases[1].CaseID)
	assert.Equal(t, "RMA/0034", cases[2].CaseID)

	status, err := f.controller.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.CaseCount)
	require.NotNil(t, status.LastUpload)
	assert.Equal(t, "sample.csv", status.LastUpload.Filename)
}

func TestImportSheet_ParseFailureKeepsExistingCases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.importSample(t)

	_, err := f.controller.ImportSheet(ctx, "broken.csv", strings.NewReader("RMA ID\n\xff\xfe\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrParseFailure)

	count, err := f.cases.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestImportSheet_EmptySheetKeepsOutcomes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.importSample(t)

	_, err := f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		CaseID:      "RMA/0032",
		OutcomeKind: OutcomeReplacement,
	})
	require.NoError(t, err)

	stats, err := f.controller.ImportSheet(ctx, "empty.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, ImportBatchStats{}, stats)

	status, err := f.controller.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.CaseCount)
	assert.Equal(t, int64(1), status.OutcomeCount)
}

func TestSearchCase(t *testing.T) {
	f := newFixture(t)
	f.importSample(t)

	tests := []struct {
		name     string
		query    string
		expected string
		err      error
	}{
		{name: "exact id", query: "RMA/0032", expected: "RMA/0032"},
		{name: "case-insensitive substring", query: "  rma/02 ", expected: "RMA/0200"},
		{name: "first match wins", query: "rma/", expected: "RMA/0032"},
		{name: "empty query", query: "   ", err: ErrCaseNotFound},
		{name: "no match", query: "RMA/9999", err: ErrCaseNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := f.controller.SearchCase(context.Background(), tt.query)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, found.CaseID)
		})
	}
}

func TestLookupForCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.importSample(t)

	_, err := f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		CaseID:      "RMA/0200",
		OutcomeKind: OutcomePhysicalDamage,
	})
	require.NoError(t, err)

	tests := []struct {
		name        string
		query       string
		expectedID  string
		expectedETA string
		hasOutcome  bool
	}{
		{name: "by case id", query: "rma/0032", expectedID: "RMA/0032", expectedETA: "1-2 business days"},
		{name: "by phone", query: "9876500002", expectedID: "RMA/0200", expectedETA: "3-5 business days", hasOutcome: true},
		{name: "by invoice", query: "inv-102", expectedID: "RMA/0034", expectedETA: "1-2 business days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup, err := f.controller.LookupForCustomer(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, lookup.Case.CaseID)
			assert.Equal(t, tt.expectedETA, lookup.ETA)
			assert.Equal(t, tt.hasOutcome, lookup.Outcome != nil)
		})
	}

	_, err = f.controller.LookupForCustomer(ctx, "nobody")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestSubmitOutcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.importSample(t)

	outcome, err := f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		CaseID:      "RMA/0032",
		ProductSKU:  " KH-01 ",
		OutcomeKind: OutcomeNoIssuesFound,
		Comments:    "works on bench",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, outcome.ID)
	assert.Equal(t, "Asha Rao", outcome.CustomerName)
	assert.Equal(t, "INV-100", outcome.InvoiceRef)
	assert.Equal(t, "2024-03-01", outcome.OrderDate)
	assert.Equal(t, "KH-01", outcome.ProductSKU)
	assert.Equal(t, "3/7/2024", outcome.TestedDate)

	updated, err := f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		ID:          outcome.ID,
		CaseID:      "RMA/0032",
		OutcomeKind: OutcomeReplacement,
	})
	require.NoError(t, err)
	assert.Equal(t, outcome.ID, updated.ID)

	stored, err := f.outcomes.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, OutcomeReplacement, stored[0].Kind)
}

func TestSubmitOutcome_ReusedIDForAnotherCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.importSample(t)

	first, err := f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		CaseID:      "RMA/0032",
		OutcomeKind: OutcomeReplacement,
	})
	require.NoError(t, err)

	_, err = f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		ID:          first.ID,
		CaseID:      "RMA/0200",
		OutcomeKind: OutcomeNoIssuesFound,
	})
	assert.ErrorIs(t, err, ErrInvalidOutcome)

	stored, err := f.outcomes.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "RMA/0032", stored[0].CaseID)
	assert.Equal(t, OutcomeReplacement, stored[0].Kind)

	summary, err := f.controller.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Replacement)
	assert.Equal(t, 0, summary.NoIssuesFound)
}

func TestSubmitOutcome_ReturnsStoredRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.importSample(t)

	first, err := f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		CaseID:      "RMA/0032",
		OutcomeKind: OutcomeMoreTestingNeeded,
		Comments:    "burn-in overnight",
	})
	require.NoError(t, err)

	f.controller.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
	second, err := f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		ID:          first.ID,
		CaseID:      "RMA/0032",
		OutcomeKind: OutcomeNoIssuesFound,
		Comments:    "passed",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, OutcomeNoIssuesFound, second.Kind)
	assert.Equal(t, "passed", second.Comments)
	assert.Equal(t, "3/7/2024", second.TestedDate)
	assert.Equal(t, "RMA/0032", second.CaseID)
}

func TestSubmitOutcome_Rejections(t *testing.T) {
	f := newFixture(t)
	f.importSample(t)

	tests := []struct {
		name string
		req  SubmitOutcomeRequest
		err  error
	}{
		{
			name: "unknown kind",
			req:  SubmitOutcomeRequest{CaseID: "RMA/0032", OutcomeKind: "Lost"},
			err:  ErrInvalidOutcome,
		},
		{
			name: "unknown case",
			req:  SubmitOutcomeRequest{CaseID: "RMA/0999", OutcomeKind: OutcomeReplacement},
			err:  ErrCaseNotFound,
		},
		{
			name: "blank case",
			req:  SubmitOutcomeRequest{OutcomeKind: OutcomeReplacement},
			err:  ErrCaseNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.controller.SubmitOutcome(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestListOutcomes_Filter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seed := []TestOutcome{
		{CaseID: "RMA/0032", CustomerName: "Asha Rao", Kind: OutcomeReplacement, TestedDate: "3/1/2024"},
		{CaseID: "RMA/0033", CustomerName: "Ravi Kumar", Kind: OutcomeNoIssuesFound, TestedDate: "3/5/2024"},
		{CaseID: "RMA/0034", CustomerName: "Meera Shah", Kind: OutcomePhysicalDamage, TestedDate: "not a date"},
	}
	for i := range seed {
		require.NoError(t, f.outcomes.Upsert(ctx, &seed[i]))
	}

	tests := []struct {
		name     string
		filter   OutcomeFilter
		expected []string
	}{
		{name: "no filter", filter: OutcomeFilter{}, expected: []string{"RMA/0032", "RMA/0033", "RMA/0034"}},
		{name: "by name", filter: OutcomeFilter{Query: "ravi"}, expected: []string{"RMA/0033"}},
		{name: "by kind", filter: OutcomeFilter{Query: "physical"}, expected: []string{"RMA/0034"}},
		{name: "from bound", filter: OutcomeFilter{From: "2024-03-02"}, expected: []string{"RMA/0033"}},
		{name: "to bound inclusive", filter: OutcomeFilter{To: "2024-03-01"}, expected: []string{"RMA/0032"}},
		{
			name:     "range",
			filter:   OutcomeFilter{From: "2024-03-01", To: "2024-03-05"},
			expected: []string{"RMA/0032", "RMA/0033"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcomes, err := f.controller.ListOutcomes(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(outcomes))
			for _, o := range outcomes {
				ids = append(ids, o.CaseID)
			}
			assert.ElementsMatch(t, tt.expected, ids)
		})
	}

	_, err := f.controller.ListOutcomes(ctx, OutcomeFilter{From: "03/01/2024"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.importSample(t)

	_, err := f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		CaseID:      "RMA/0032",
		OutcomeKind: OutcomeNoIssuesFound,
	})
	require.NoError(t, err)

	summary, err := f.controller.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalForms)
	assert.Equal(t, 1, summary.CompletedTests)
	assert.Equal(t, 1, summary.NoIssuesFound)
	assert.Equal(t, 0, summary.Replacement)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 1, summary.MoreTestingRequired)
	assert.Equal(t, 33, summary.ResolutionRatePercent)
	assert.Equal(t, 100, summary.SuccessRatePercent)
	assert.Equal(t, 6, summary.AverageResolutionDays)
}

func TestExports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.importSample(t)

	_, err := f.controller.SubmitOutcome(ctx, SubmitOutcomeRequest{
		CaseID:      "RMA/0032",
		OutcomeKind: OutcomeReplacement,
		Comments:    "switch failure, see notes",
	})
	require.NoError(t, err)

	var cases bytes.Buffer
	require.NoError(t, f.controller.ExportCases(ctx, &cases))
	caseRecords, err := csv.NewReader(&cases).ReadAll()
	require.NoError(t, err)
	require.Len(t, caseRecords, 4)
	assert.Equal(t, caseExportHeaders, caseRecords[0])
	assert.Equal(t, "RMA/0032", caseRecords[1][0])
	assert.Equal(t, "Replace", caseRecords[1][6])

	var outcomes bytes.Buffer
	require.NoError(t, f.controller.ExportOutcomes(ctx, &outcomes, OutcomeFilter{}))
	outcomeRecords, err := csv.NewReader(&outcomes).ReadAll()
	require.NoError(t, err)
	require.Len(t, outcomeRecords, 2)
	assert.Equal(t, outcomeExportHeaders, outcomeRecords[0])
	assert.Equal(t, "RMA/0032", outcomeRecords[1][4])
	assert.Equal(t, "switch failure, see notes", outcomeRecords[1][12])
}
