package service

import (
	"context"
	"math"
	"testing"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/models"
	"github.com/crucial707/candidate-hub/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, svc *CandidateService, people ...models.Candidate) []*models.Candidate {
	t.Helper()
	out := make([]*models.Candidate, 0, len(people))
	for i, p := range people {
		c, err := svc.Create(context.Background(), i+1, p)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func intPtr(n int) *int { return &n }

func TestCandidateService_ListPagination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewCandidateService(repo.NewMemoryCandidateRepo(), nil)
	for exp := 1; exp <= 5; exp++ {
		_, err := svc.Create(ctx, exp, models.Candidate{FirstName: "C", LastName: "X", Experience: exp})
		require.NoError(t, err)
	}

	p1, err := svc.List(ctx, models.CandidateFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, p1.Items, 2)
	assert.Equal(t, 5, p1.Total)
	assert.Equal(t, 3, p1.TotalPages)
	assert.Equal(t, 1, p1.Items[0].Experience)

	p3, err := svc.List(ctx, models.CandidateFilter{}, 3, 2)
	require.NoError(t, err)
	require.Len(t, p3.Items, 1)
	assert.Equal(t, 5, p3.Items[0].Experience)

	p9, err := svc.List(ctx, models.CandidateFilter{}, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, p9.Items)
	assert.NotNil(t, p9.Items)
	assert.Equal(t, 5, p9.Total)
}

func TestCandidateService_ListLargePagination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewCandidateService(repo.NewMemoryCandidateRepo(), nil)
	for exp := 1; exp <= 5; exp++ {
		_, err := svc.Create(ctx, exp, models.Candidate{FirstName: "C", LastName: "X", Experience: exp})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, models.CandidateFilter{}, 1, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)
	assert.Equal(t, 5, all.Total)
	assert.Equal(t, 1, all.TotalPages)

	far, err := svc.List(ctx, models.CandidateFilter{}, math.MaxInt/2, 4)
	require.NoError(t, err)
	assert.Empty(t, far.Items)
	assert.Equal(t, 5, far.Total)
	assert.Equal(t, 2, far.TotalPages)

	last, err := svc.List(ctx, models.CandidateFilter{}, math.MaxInt, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, last.Items)
	assert.Equal(t, 1, last.TotalPages)
}

func TestCandidateService_ListInvalidPagination(t *testing.T) {
	t.Parallel()
	svc := NewCandidateService(repo.NewMemoryCandidateRepo(), nil)

	for _, tc := range []struct{ page, size int }{{0, 10}, {1, 0}, {-1, 5}, {1, -3}} {
		_, err := svc.List(context.Background(), models.CandidateFilter{}, tc.page, tc.size)
		assert.ErrorIs(t, err, apperr.ErrInvalidPagination, "page=%d size=%d", tc.page, tc.size)
	}
}

func TestCandidateService_NameFilter(t *testing.T) {
	t.Parallel()
	svc := NewCandidateService(repo.NewMemoryCandidateRepo(), nil)
	seed(t, svc,
		models.Candidate{FirstName: "John", LastName: "Doe", Experience: 3},
		models.Candidate{FirstName: "Alice", LastName: "Smith", Experience: 3},
		models.Candidate{FirstName: "Bob", LastName: "Johnson", Experience: 5},
	)

	page, err := svc.List(context.Background(), models.CandidateFilter{Name: "jo"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "John", page.Items[0].FirstName)
	assert.Equal(t, "Johnson", page.Items[1].LastName)

	page, err = svc.List(context.Background(), models.CandidateFilter{Name: "JO", Experience: intPtr(5)}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bob", page.Items[0].FirstName)

	page, err = svc.List(context.Background(), models.CandidateFilter{Name: "zzz"}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestCandidateService_DeleteThenGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	audit := repo.NewMemoryAuditRepo()
	svc := NewCandidateService(repo.NewMemoryCandidateRepo(), audit)
	created := seed(t, svc, models.Candidate{FirstName: "John", LastName: "Doe", Experience: 1})[0]

	deleted, err := svc.Delete(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Delete(ctx, 1, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	entries, err := svc.AuditLog(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionDelete, entries[0].Action)
	assert.Equal(t, ActionCreate, entries[1].Action)
}

func TestCandidateService_CreateDuplicateOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewCandidateService(repo.NewMemoryCandidateRepo(), nil)

	_, err := svc.Create(ctx, 7, models.Candidate{FirstName: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 7, models.Candidate{FirstName: "B"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateOwner)
}

func TestCandidateService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewCandidateService(repo.NewMemoryCandidateRepo(), nil)
	created := seed(t, svc, models.Candidate{FirstName: "John", LastName: "Doe", Experience: 1})[0]

	updated, err := svc.Update(ctx, 1, created.ID, models.Candidate{FirstName: "Johnny", LastName: "Doe", Experience: 2})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.FirstName)
	assert.Equal(t, created.UserID, updated.UserID)

	_, err = svc.Update(ctx, 1, 999, models.Candidate{FirstName: "X"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
