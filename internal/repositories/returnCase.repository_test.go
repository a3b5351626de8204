package repositories

import (
	"context"
	"errors"
	. "rmatrack/internal/models"
	"rmatrack/internal/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caseRow(id, name string) ReturnCase {
	return ReturnCase{CaseID: id, CustomerName: name, WorkflowStatus: WorkflowPending}
}

func caseIDs(cases []ReturnCase) []string {
	ids := make([]string, len(cases))
	for i, c := range cases {
		ids[i] = c.CaseID
	}
	return ids
}

func TestReturnCaseRepository_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	repo := NewReturnCase(newTestDB(t))

	require.NoError(t, repo.ReplaceAll(ctx, []ReturnCase{
		caseRow("RMA/0032", "Asha"),
		caseRow("RMA/0033", "Ravi"),
	}))

	require.NoError(t, repo.ReplaceAll(ctx, []ReturnCase{
		caseRow("RMA/0100", "Meera"),
	}))

	cases, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"RMA/0100"}, caseIDs(cases))
	assert.Equal(t, "Meera", cases[0].CustomerName)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestReturnCaseRepository_ReplaceAllWithEmptySet(t *testing.T) {
	ctx := context.Background()
	repo := NewReturnCase(newTestDB(t))

	require.NoError(t, repo.ReplaceAll(ctx, []ReturnCase{caseRow("RMA/0032", "Asha")}))
	require.NoError(t, repo.ReplaceAll(ctx, nil))

	cases, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestReturnCaseRepository_DuplicateIDsLastWins(t *testing.T) {
	ctx := context.Background()
	repo := NewReturnCase(newTestDB(t))

	require.NoError(t, repo.ReplaceAll(ctx, []ReturnCase{
		caseRow("RMA/0032", "first"),
		caseRow("RMA/0040", "other"),
		caseRow("RMA/0032", "second"),
	}))

	cases, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, []string{"RMA/0032", "RMA/0040"}, caseIDs(cases))
	assert.Equal(t, "second", cases[0].CustomerName)
}

func TestReturnCaseRepository_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewReturnCase(newTestDB(t))

	ids := []string{"RMA/0050", "RMA/0032", "RMA/0041"}
	var cases []ReturnCase
	for _, id := range ids {
		cases = append(cases, caseRow(id, ""))
	}
	require.NoError(t, repo.ReplaceAll(ctx, cases))

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids, caseIDs(stored))
}

func TestReturnCaseRepository_ReplaceAllRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewReturnCase(db)
	tx := services.NewTransactionService(db)

	require.NoError(t, repo.ReplaceAll(ctx, []ReturnCase{caseRow("RMA/0032", "Asha")}))

	failure := errors.New("batch record failed")
	err := tx.Execute(ctx, func(txCtx context.Context) error {
		if err := repo.ReplaceAll(txCtx, []ReturnCase{caseRow("RMA/0099", "Zed")}); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)

	cases, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"RMA/0032"}, caseIDs(cases))
}

func TestDedupeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    []ReturnCase
		expected []string
	}{
		{name: "empty", input: nil, expected: []string{}},
		{
			name:     "no duplicates",
			input:    []ReturnCase{caseRow("A", ""), caseRow("B", "")},
			expected: []string{"A", "B"},
		},
		{
			name:     "duplicates collapse to first position",
			input:    []ReturnCase{caseRow("A", ""), caseRow("B", ""), caseRow("A", ""), caseRow("B", "")},
			expected: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, caseIDs(dedupeCases(tt.input)))
		})
	}
}
