package returnsController

import (
	"context"
	"errors"
	"io"
	"rmatrack/config"
	"rmatrack/internal/ingest"
	"rmatrack/internal/logger"
	. "rmatrack/internal/models"
	"rmatrack/internal/reporting"
	"rmatrack/internal/repositories"
	"rmatrack/internal/services"
	"rmatrack/internal/utils"
	"strings"
	"time"
)

var (
	ErrCaseNotFound   = errors.New("case not found")
	ErrInvalidOutcome = errors.New("invalid outcome")
	ErrInvalidFilter  = errors.New("invalid filter")
)

type ReturnsController struct {
	caseRepo           repositories.ReturnCaseRepository
	outcomeRepo        repositories.TestOutcomeRepository
	batchRepo          repositories.ImportBatchRepository
	transactionService *services.TransactionService
	mapper             *ingest.Mapper
	aggregator         *reporting.Aggregator
	dates              *utils.DateValidator
	now                func() time.Time
	log                logger.Logger
}

func New(
	caseRepo repositories.ReturnCaseRepository,
	outcomeRepo repositories.TestOutcomeRepository,
	batchRepo repositories.ImportBatchRepository,
	transactionService *services.TransactionService,
	config config.Config,
) *ReturnsController {
	return &ReturnsController{
		caseRepo:           caseRepo,
		outcomeRepo:        outcomeRepo,
		batchRepo:          batchRepo,
		transactionService: transactionService,
		mapper:             ingest.NewMapper(config.RMAIDOffset, config.RMAIDWidth),
		aggregator:         reporting.NewAggregator(),
		dates:              utils.NewDateValidator(),
		now:                time.Now,
		log:                logger.New("ReturnsController"),
	}
}

// ImportSheet parses a CSV export and replaces the stored case set with it.
// The case replacement and the batch record commit together or not at all.
func (rc *ReturnsController) ImportSheet(
	ctx context.Context,
	filename string,
	r io.Reader,
) (ImportBatchStats, error) {
	log := rc.log.Function("ImportSheet")

	sheet, err := ingest.ParseCSV(r)
	if err != nil {
		return ImportBatchStats{}, log.Err("failed to parse sheet", err, "filename", filename)
	}

	result := ingest.Normalize(sheet, rc.mapper)

	err = rc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if err := rc.caseRepo.ReplaceAll(txCtx, result.Cases); err != nil {
			return err
		}
		return rc.batchRepo.Create(txCtx, &ImportBatch{
			Filename:      filename,
			TotalRowsSeen: result.Stats.TotalRowsSeen,
			CasesProduced: result.Stats.CasesProduced,
		})
	})
	if err != nil {
		return ImportBatchStats{}, log.Err("failed to store imported cases", err, "filename", filename)
	}

	log.Info("Imported sheet", "filename", filename, "cases", result.Stats.CasesProduced)
	return result.Stats, nil
}

func (rc *ReturnsController) ListCases(ctx context.Context) ([]ReturnCase, error) {
	cases, err := rc.caseRepo.List(ctx)
	if err != nil {
		return nil, rc.log.Function("ListCases").Err("failed to list cases", err)
	}
	return cases, nil
}

// SearchCase returns the first case whose id contains query, ignoring case.
func (rc *ReturnsController) SearchCase(ctx context.Context, query string) (ReturnCase, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return ReturnCase{}, ErrCaseNotFound
	}

	cases, err := rc.ListCases(ctx)
	if err != nil {
		return ReturnCase{}, err
	}

	for _, c := range cases {
		if strings.Contains(strings.ToLower(c.CaseID), needle) {
			return c, nil
		}
	}

	return ReturnCase{}, ErrCaseNotFound
}

// LookupForCustomer matches query against case id, phone number or invoice
// and attaches the newest outcome for the matched case.
func (rc *ReturnsController) LookupForCustomer(ctx context.Context, query string) (PortalLookup, error) {
	log := rc.log.Function("LookupForCustomer")

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return PortalLookup{}, ErrCaseNotFound
	}
	needle := strings.ToLower(trimmed)

	cases, err := rc.ListCases(ctx)
	if err != nil {
		return PortalLookup{}, err
	}

	var match *ReturnCase
	for i := range cases {
		c := &cases[i]
		if strings.Contains(strings.ToLower(c.CaseID), needle) ||
			strings.Contains(c.CustomerPhone, trimmed) ||
			strings.Contains(strings.ToLower(c.InvoiceRef), needle) {
			match = c
			break
		}
	}
	if match == nil {
		return PortalLookup{}, ErrCaseNotFound
	}

	outcomes, err := rc.outcomeRepo.List(ctx)
	if err != nil {
		return PortalLookup{}, log.Err("failed to list outcomes", err)
	}

	lookup := PortalLookup{Case: *match}
	for i := range outcomes {
		if outcomes[i].CaseID == match.CaseID {
			lookup.Outcome = &outcomes[i]
			break
		}
	}
	lookup.ETA = reporting.CustomerETA(lookup.Outcome)

	return lookup, nil
}

// SubmitOutcome records a tester verdict against a case in the current
// batch. The case's customer and order fields are copied onto the outcome.
func (rc *ReturnsController) SubmitOutcome(
	ctx context.Context,
	req SubmitOutcomeRequest,
) (TestOutcome, error) {
	log := rc.log.Function("SubmitOutcome")

	if !req.OutcomeKind.Valid() {
		return TestOutcome{}, ErrInvalidOutcome
	}

	caseID := strings.TrimSpace(req.CaseID)
	if caseID == "" {
		return TestOutcome{}, ErrCaseNotFound
	}

	cases, err := rc.ListCases(ctx)
	if err != nil {
		return TestOutcome{}, err
	}

	var found *ReturnCase
	for i := range cases {
		if cases[i].CaseID == caseID {
			found = &cases[i]
			break
		}
	}
	if found == nil {
		return TestOutcome{}, ErrCaseNotFound
	}

	outcome := TestOutcome{
		BaseUUIDModel:    BaseUUIDModel{ID: strings.TrimSpace(req.ID)},
		CaseID:           found.CaseID,
		CustomerName:     found.CustomerName,
		OrderNumber:      found.OrderNumber,
		InvoiceRef:       found.InvoiceRef,
		CustomerPhone:    found.CustomerPhone,
		ProductSKU:       strings.TrimSpace(req.ProductSKU),
		Kind:             req.OutcomeKind,
		TestedDate:       utils.FormatTestedDate(rc.now()),
		IssueDescription: found.IssueDescription,
		OrderDate:        found.OrderDate,
		Comments:         req.Comments,
		InvoiceLink:      found.InvoiceLink,
		ReturnAddress:    found.ReturnAddress,
	}

	// An existing id may only be re-submitted for the case it was recorded
	// against; the upsert never rewrites case_id.
	var stored *TestOutcome
	err = rc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if outcome.ID != "" {
			existing, err := rc.outcomeRepo.GetByID(txCtx, outcome.ID)
			if err != nil {
				return err
			}
			if existing != nil && existing.CaseID != outcome.CaseID {
				return ErrInvalidOutcome
			}
		}

		if err := rc.outcomeRepo.Upsert(txCtx, &outcome); err != nil {
			return err
		}

		saved, err := rc.outcomeRepo.GetByID(txCtx, outcome.ID)
		if err != nil {
			return err
		}
		if saved == nil {
			return log.Error("outcome missing after save", "id", outcome.ID)
		}
		stored = saved
		return nil
	})
	if errors.Is(err, ErrInvalidOutcome) {
		log.Info("Rejected outcome id reused for another case", "id", outcome.ID, "caseID", caseID)
		return TestOutcome{}, err
	}
	if err != nil {
		return TestOutcome{}, log.Err("failed to save outcome", err, "caseID", caseID)
	}

	log.Info("Recorded outcome", "caseID", stored.CaseID, "kind", stored.Kind, "id", stored.ID)
	return *stored, nil
}

// ListOutcomes returns outcome history newest first. An outcome whose tested
// date cannot be read is dropped once either date bound is set.
func (rc *ReturnsController) ListOutcomes(
	ctx context.Context,
	filter OutcomeFilter,
) ([]TestOutcome, error) {
	log := rc.log.Function("ListOutcomes")

	from, hasFrom, err := parseBound(filter.From)
	if err != nil {
		return nil, err
	}
	to, hasTo, err := parseBound(filter.To)
	if err != nil {
		return nil, err
	}

	outcomes, err := rc.outcomeRepo.List(ctx)
	if err != nil {
		return nil, log.Err("failed to list outcomes", err)
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Query))
	filtered := make([]TestOutcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		if needle != "" && !matchesOutcome(outcome, needle) {
			continue
		}

		if hasFrom || hasTo {
			tested, ok := rc.dates.Parse(outcome.TestedDate)
			if !ok {
				continue
			}
			if hasFrom && tested.Before(from) {
				continue
			}
			if hasTo && !tested.Before(to.AddDate(0, 0, 1)) {
				continue
			}
		}

		filtered = append(filtered, outcome)
	}

	return filtered, nil
}

func matchesOutcome(outcome TestOutcome, needle string) bool {
	return strings.Contains(strings.ToLower(outcome.CaseID), needle) ||
		strings.Contains(strings.ToLower(outcome.CustomerName), needle) ||
		strings.Contains(strings.ToLower(string(outcome.Kind)), needle)
}

func parseBound(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, nil
	}
	bound, err := time.Parse(string(utils.FormatISODate), value)
	if err != nil {
		return time.Time{}, false, errors.Join(ErrInvalidFilter, err)
	}
	return bound, true, nil
}

func (rc *ReturnsController) Dashboard(ctx context.Context) (reporting.Summary, error) {
	log := rc.log.Function("Dashboard")

	cases, err := rc.caseRepo.List(ctx)
	if err != nil {
		return reporting.Summary{}, log.Err("failed to list cases", err)
	}

	outcomes, err := rc.outcomeRepo.List(ctx)
	if err != nil {
		return reporting.Summary{}, log.Err("failed to list outcomes", err)
	}

	return rc.aggregator.Report(cases, outcomes), nil
}

func (rc *ReturnsController) Status(ctx context.Context) (SystemStatus, error) {
	log := rc.log.Function("Status")

	caseCount, err := rc.caseRepo.Count(ctx)
	if err != nil {
		return SystemStatus{}, log.Err("failed to count cases", err)
	}

	outcomeCount, err := rc.outcomeRepo.Count(ctx)
	if err != nil {
		return SystemStatus{}, log.Err("failed to count outcomes", err)
	}

	latest, err := rc.batchRepo.GetLatest(ctx)
	if err != nil {
		return SystemStatus{}, log.Err("failed to get latest import", err)
	}

	return SystemStatus{
		CaseCount:    caseCount,
		OutcomeCount: outcomeCount,
		LastUpload:   latest,
	}, nil
}
