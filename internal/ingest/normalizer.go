package ingest

import (
	"strings"

	. "rmatrack/internal/models"
)

type Result struct {
	Cases []ReturnCase
	Stats ImportBatchStats
}

// Normalize drops blank rows and maps the rest. Both counters report the
// post-filter row count, so they are always equal to len(Cases); duplicate
// case ids are kept here and resolved by the store.
func Normalize(sheet Sheet, mapper *Mapper) Result {
	cases := make([]ReturnCase, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if IsBlankRow(row) {
			continue
		}
		cases = append(cases, mapper.MapRow(row, len(cases)))
	}

	return Result{
		Cases: cases,
		Stats: ImportBatchStats{
			TotalRowsSeen: len(cases),
			CasesProduced: len(cases),
		},
	}
}

func IsBlankRow(row Row) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
