package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// seed inserts n applicants; applicant i is created i minutes after base,
// so the newest-first order is n-1 ... 0.
func seed(t *testing.T, repo ApplicantRepository, n int) []domain.Applicant {
	t.Helper()
	out := make([]domain.Applicant, 0, n)
	for i := 0; i < n; i++ {
		a := domain.Applicant{
			Name:      fmt.Sprintf("Applicant %02d", i),
			Email:     fmt.Sprintf("a%02d@example.com", i),
			ResumeURL: fmt.Sprintf("https://cdn.example.com/resumes/%02d.pdf", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), &a))
		out = append(out, a)
	}
	return out
}

func names(as []domain.Applicant) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Name
	}
	return out
}

func TestApplicantRepository_CreateAssignsDefaults(t *testing.T) {
	repo := NewApplicantRepository(testutil.NewDB(t))
	ctx := context.Background()

	a := &domain.Applicant{Name: "Jane Doe", Email: "jane@x.com", Message: "Hello", ResumeURL: "https://x/r.pdf"}
	require.NoError(t, repo.Create(ctx, a))

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, domain.ApplicantStatusNew, a.Status)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "new", got.Status)
	assert.Equal(t, "https://x/r.pdf", got.ResumeURL)
}

func TestApplicantRepository_CreateRejectsEmptyResumeURL(t *testing.T) {
	repo := NewApplicantRepository(testutil.NewDB(t))

	err := repo.Create(context.Background(), &domain.Applicant{Name: "x", Email: "x@x.com"})
	assert.ErrorIs(t, err, common.ErrValidation)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApplicantRepository_Delete(t *testing.T) {
	repo := NewApplicantRepository(testutil.NewDB(t))
	ctx := context.Background()
	all := seed(t, repo, 2)

	require.NoError(t, repo.Delete(ctx, all[0].ID))
	_, err := repo.FindByID(ctx, all[0].ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, all[0].ID), common.ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestApplicantRepository_Pages(t *testing.T) {
	repo := NewApplicantRepository(testutil.NewDB(t))
	ctx := context.Background()
	seed(t, repo, 7)

	first, err := repo.FirstPage(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Applicant 06", "Applicant 05", "Applicant 04"}, names(first))

	last := first[len(first)-1]
	next, err := repo.PageAfter(ctx, PageCursor{CreatedAt: last.CreatedAt, ID: last.ID}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Applicant 03", "Applicant 02", "Applicant 01"}, names(next))

	top := next[0]
	prev, err := repo.PageBefore(ctx, PageCursor{CreatedAt: top.CreatedAt, ID: top.ID}, 3)
	require.NoError(t, err)
	assert.Equal(t, names(first), names(prev))

	tail := next[len(next)-1]
	rest, err := repo.PageAfter(ctx, PageCursor{CreatedAt: tail.CreatedAt, ID: tail.ID}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Applicant 00"}, names(rest))
}

func TestApplicantRepository_PageBeforeReturnsClosestRows(t *testing.T) {
	repo := NewApplicantRepository(testutil.NewDB(t))
	ctx := context.Background()
	all := seed(t, repo, 6)

	// rows newer than Applicant 01 are 05..02; the two closest are 03 and 02
	c := PageCursor{CreatedAt: all[1].CreatedAt, ID: all[1].ID}
	prev, err := repo.PageBefore(ctx, c, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Applicant 03", "Applicant 02"}, names(prev))
}

func TestApplicantRepository_TiesBrokenByID(t *testing.T) {
	repo := NewApplicantRepository(testutil.NewDB(t))
	ctx := context.Background()

	ids := []string{
		"00000000-0000-0000-0000-000000000001",
		"00000000-0000-0000-0000-000000000002",
		"00000000-0000-0000-0000-000000000003",
	}
	for _, id := range ids {
		require.NoError(t, repo.Create(ctx, &domain.Applicant{
			ID: id, Name: id, Email: "t@x.com", ResumeURL: "https://x/r.pdf", CreatedAt: base,
		}))
	}

	first, err := repo.FirstPage(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[1]}, names(first))

	next, err := repo.PageAfter(ctx, PageCursor{CreatedAt: base, ID: ids[1]}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0]}, names(next))
}
