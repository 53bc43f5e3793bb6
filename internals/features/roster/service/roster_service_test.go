package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance_backend/internals/features/roster/dto"
	"attendance_backend/internals/helpers/apperr"
	"attendance_backend/internals/testutil"
)

func TestResolveToken(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, "XY7", "Mario", "", "Rossi", "tok-xy7")
	svc := NewRosterService(db)
	ctx := context.Background()

	u, err := svc.ResolveToken(ctx, " tok-xy7 ")
	require.NoError(t, err)
	assert.Equal(t, "xy7", u.VDash)
	assert.Equal(t, "MARIO ROSSI", u.FullName())

	_, err = svc.ResolveToken(ctx, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.ResolveToken(ctx, "  ")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetByKeyNormalizes(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, "ab12", "Ana", "", "Bell", "t1")
	svc := NewRosterService(db)

	for _, k := range []string{"ab12", "AB12 ", " Ab12"} {
		u, err := svc.GetByKey(context.Background(), k)
		require.NoError(t, err, k)
		assert.Equal(t, "ab12", u.VDash)
	}
	_, err := svc.GetByKey(context.Background(), "zz99")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListRosterSorted(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, "m3", "M", "", "M", "t3")
	testutil.SeedUser(t, db, "a1", "A", "", "A", "t1")
	testutil.SeedUser(t, db, "K2", "K", "", "K", "t2")
	svc := NewRosterService(db)

	keys, err := svc.ListRoster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "K2", "M3"}, keys)

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRosterService(db)
	ctx := context.Background()

	seeds := []dto.RosterSeed{
		{VDash: " AB12", FirstName: "Ana", LastName: "Bell"},
		{VDash: "cd34", FirstName: "Cid", MiddleName: "X", LastName: "Dee", Token: "fixed-token"},
	}
	res, err := svc.Seed(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, dto.SeedResult{Created: 2}, res)

	res, err = svc.Seed(ctx, append(seeds, dto.RosterSeed{VDash: "ab12", FirstName: "Dup", LastName: "Dup"}))
	require.NoError(t, err)
	assert.Equal(t, dto.SeedResult{Created: 0, Skipped: 3}, res)

	u, err := svc.ResolveToken(ctx, "fixed-token")
	require.NoError(t, err)
	assert.Equal(t, "CID X DEE", u.FullName())

	ab, err := svc.GetByKey(ctx, "ab12")
	require.NoError(t, err)
	assert.Len(t, ab.Token, TokenLength)
}

func TestSeedRejectsInvalidRows(t *testing.T) {
	svc := NewRosterService(testutil.NewDB(t))
	_, err := svc.Seed(context.Background(), []dto.RosterSeed{{VDash: "x1", FirstName: "No"}})
	assert.Error(t, err)
}

func TestRotateTokens(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, "a1", "A", "", "A", "old-1")
	testutil.SeedUser(t, db, "b2", "B", "", "B", "old-2")
	svc := NewRosterService(db)
	ctx := context.Background()

	tokens, err := svc.RotateTokens(ctx)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.NotEqual(t, tokens["a1"], tokens["b2"])

	_, err = svc.ResolveToken(ctx, "old-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	u, err := svc.ResolveToken(ctx, tokens["b2"])
	require.NoError(t, err)
	assert.Equal(t, "b2", u.VDash)
}

func TestGenerateToken(t *testing.T) {
	a, b := GenerateToken(), GenerateToken()
	assert.Len(t, a, TokenLength)
	assert.NotEqual(t, a, b)
}
