package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"attendance_backend/internals/features/attendance/model"
	"attendance_backend/internals/helpers/apperr"
	"attendance_backend/internals/helpers/dbtime"
	"attendance_backend/internals/testutil"
)

func newLedger(t *testing.T, now time.Time) (*LedgerService, *dbtime.FixedClock, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	clock := dbtime.NewFixedClock(now)
	return NewLedgerService(db, clock, testutil.WIB), clock, db
}

func countRows(t *testing.T, db *gorm.DB, key, day string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.CheckinModel{}).
		Where("vdash = ? AND checkin_date = ?", key, day).
		Count(&n).Error)
	return n
}

func TestToggleScenario(t *testing.T) {
	ledger, clock, db := newLedger(t, testutil.At("2024-01-10", 8, 1, 15))
	ctx := context.Background()

	tr, _, err := ledger.Toggle(ctx, "xy7")
	require.NoError(t, err)
	assert.Equal(t, model.TransitionCheckedIn, tr)

	st, err := ledger.StatusOf(ctx, "xy7")
	require.NoError(t, err)
	assert.True(t, st.CheckedIn)
	assert.False(t, st.CheckedOut)
	assert.Equal(t, "08:01", st.CheckinTime)
	assert.Equal(t, "", st.CheckoutTime)

	clock.Set(testutil.At("2024-01-10", 17, 30, 2))
	tr, _, err = ledger.Toggle(ctx, "xy7")
	require.NoError(t, err)
	assert.Equal(t, model.TransitionCheckedOut, tr)

	st, err = ledger.StatusOf(ctx, "xy7")
	require.NoError(t, err)
	assert.True(t, st.CheckedOut)
	assert.Equal(t, "17:30", st.CheckoutTime)

	clock.Set(testutil.At("2024-01-10", 18, 0, 0))
	tr, rec, err := ledger.Toggle(ctx, "xy7")
	require.NoError(t, err)
	assert.Equal(t, model.TransitionNone, tr)
	require.NotNil(t, rec)
	assert.Equal(t, "08:01", rec.CheckinTime.HHMM())
	assert.Equal(t, "17:30", dbtime.HHMMPtr(rec.CheckoutTime))

	assert.EqualValues(t, 1, countRows(t, db, "xy7", "2024-01-10"))
}

func TestToggleIsCaseAndWhitespaceInsensitive(t *testing.T) {
	ledger, clock, db := newLedger(t, testutil.At("2024-01-10", 8, 0, 0))
	ctx := context.Background()

	tr, _, err := ledger.Toggle(ctx, "ab12")
	require.NoError(t, err)
	assert.Equal(t, model.TransitionCheckedIn, tr)

	clock.Set(testutil.At("2024-01-10", 12, 0, 0))
	tr, _, err = ledger.Toggle(ctx, "AB12 ")
	require.NoError(t, err)
	assert.Equal(t, model.TransitionCheckedOut, tr)

	tr, _, err = ledger.Toggle(ctx, " Ab12")
	require.NoError(t, err)
	assert.Equal(t, model.TransitionNone, tr)

	var n int64
	require.NoError(t, db.Model(&model.CheckinModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCheckInAndCheckOutErrors(t *testing.T) {
	now := testutil.At("2024-01-10", 8, 0, 0)
	ledger, _, _ := newLedger(t, now)
	ctx := context.Background()

	_, err := ledger.CheckOut(ctx, "k1", now)
	assert.ErrorIs(t, err, apperr.ErrNotCheckedIn)

	_, err = ledger.CheckIn(ctx, "k1", now)
	require.NoError(t, err)

	_, err = ledger.CheckIn(ctx, "K1", now.Add(time.Minute))
	assert.ErrorIs(t, err, apperr.ErrAlreadyCheckedIn)

	_, err = ledger.CheckOut(ctx, "k1", now.Add(8*time.Hour))
	require.NoError(t, err)

	_, err = ledger.CheckOut(ctx, "k1", now.Add(9*time.Hour))
	assert.ErrorIs(t, err, apperr.ErrAlreadyCheckedOut)

	_, err = ledger.CheckIn(ctx, "  ", now)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestNextDayStartsFresh(t *testing.T) {
	ledger, clock, _ := newLedger(t, testutil.At("2024-01-10", 8, 0, 0))
	ctx := context.Background()

	_, _, err := ledger.Toggle(ctx, "k1")
	require.NoError(t, err)
	_, _, err = ledger.Toggle(ctx, "k1")
	require.NoError(t, err)

	clock.Set(testutil.At("2024-01-11", 7, 59, 0))
	tr, rec, err := ledger.Toggle(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, model.TransitionCheckedIn, tr)
	assert.Equal(t, "2024-01-11", rec.CheckinDate.String())
}

func TestDayFollowsDeploymentZone(t *testing.T) {
	// 20:00 UTC tanggal 10 = 03:00 WIB tanggal 11
	ledger, _, _ := newLedger(t, time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC))
	_, rec, err := ledger.Toggle(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-11", rec.CheckinDate.String())
	assert.Equal(t, "03:00", rec.CheckinTime.HHMM())
	assert.Equal(t, "2024-01-11", ledger.Today().String())
}

func TestQueriesOnAbsentAndPresent(t *testing.T) {
	now := testutil.At("2024-01-10", 9, 45, 59)
	ledger, _, _ := newLedger(t, now)
	ctx := context.Background()
	day := dbtime.DateOf(now)

	in, err := ledger.IsCheckedIn(ctx, "k1", day)
	require.NoError(t, err)
	assert.False(t, in)
	tm, err := ledger.CheckinTimeOf(ctx, "k1", day)
	require.NoError(t, err)
	assert.Equal(t, "", tm)

	_, err = ledger.CheckIn(ctx, "k1", now)
	require.NoError(t, err)

	in, err = ledger.IsCheckedIn(ctx, "K1", day)
	require.NoError(t, err)
	assert.True(t, in)
	out, err := ledger.IsCheckedOut(ctx, "k1", day)
	require.NoError(t, err)
	assert.False(t, out)

	tm, err = ledger.CheckinTimeOf(ctx, "k1", day)
	require.NoError(t, err)
	assert.Equal(t, "09:45", tm)
	tm, err = ledger.CheckoutTimeOf(ctx, "k1", day)
	require.NoError(t, err)
	assert.Equal(t, "", tm)

	st, err := ledger.StateOn(ctx, "k1", day)
	require.NoError(t, err)
	assert.Equal(t, model.StateCheckedIn, st)
}

func TestCheckoutBeforeCheckinIsFlagged(t *testing.T) {
	ledger, _, _ := newLedger(t, testutil.At("2024-01-10", 9, 0, 0))
	ctx := context.Background()

	_, err := ledger.CheckIn(ctx, "k1", testutil.At("2024-01-10", 9, 0, 0))
	require.NoError(t, err)
	rec, err := ledger.CheckOut(ctx, "k1", testutil.At("2024-01-10", 8, 30, 0))
	require.NoError(t, err)
	assert.True(t, rec.Anomaly)

	st, err := ledger.StatusOf(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, st.CheckedOut)
	assert.True(t, st.Anomaly)
}

func TestParallelTogglesKeepOneRow(t *testing.T) {
	ledger, _, db := newLedger(t, testutil.At("2024-01-10", 8, 0, 0))
	ctx := context.Background()

	const n = 12
	results := make([]model.Transition, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			tr, _, err := ledger.Toggle(ctx, "race1")
			results[i] = tr
			return err
		})
	}
	require.NoError(t, g.Wait())

	counts := map[model.Transition]int{}
	for _, tr := range results {
		counts[tr]++
	}
	assert.Equal(t, 1, counts[model.TransitionCheckedIn])
	// kalah race insert → NONE; CHECKED_OUT hanya untuk toggle yang
	// pembacaan pertamanya sudah melihat baris (tap kedua yang berurutan)
	assert.LessOrEqual(t, counts[model.TransitionCheckedOut], 1)
	assert.Equal(t, n, counts[model.TransitionCheckedIn]+counts[model.TransitionCheckedOut]+counts[model.TransitionNone])
	assert.EqualValues(t, 1, countRows(t, db, "race1", "2024-01-10"))
}

func TestParallelTogglesDifferentIdentities(t *testing.T) {
	ledger, _, db := newLedger(t, testutil.At("2024-01-10", 8, 0, 0))
	ctx := context.Background()
	keys := []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7", "h8"}

	var g errgroup.Group
	for _, k := range keys {
		k := k
		g.Go(func() error {
			tr, _, err := ledger.Toggle(ctx, k)
			if err == nil && tr != model.TransitionCheckedIn {
				t.Errorf("%s: transition = %s", k, tr)
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	var n int64
	require.NoError(t, db.Model(&model.CheckinModel{}).Count(&n).Error)
	assert.EqualValues(t, len(keys), n)
}

func TestInsertOnExistingRowIsConstraintViolation(t *testing.T) {
	now := testutil.At("2024-01-10", 8, 0, 0)
	ledger, _, db := newLedger(t, now)
	ctx := context.Background()

	_, err := ledger.insert(ctx, "k1", now)
	require.NoError(t, err)
	_, err = ledger.insert(ctx, "k1", now)
	assert.ErrorIs(t, err, apperr.ErrConstraintViolation)
	assert.ErrorIs(t, err, apperr.ErrAlreadyCheckedIn)

	assert.EqualValues(t, 1, countRows(t, db, "k1", "2024-01-10"))
}

// Toggle yang kalah race insert: baris pesaing masuk tepat setelah
// pembacaan pertama, jadi insert milik Toggle ditolak unique index.
func TestToggleLosingInsertRaceIsNone(t *testing.T) {
	now := testutil.At("2024-01-10", 8, 0, 0)
	ledger, _, db := newLedger(t, now)
	ctx := context.Background()

	var once sync.Once
	fired := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:competing_checkin", func(tx *gorm.DB) {
		if tx.Statement.Table != "checkins" {
			return
		}
		once.Do(func() {
			fired = true
			rival := &model.CheckinModel{
				VDash:       "k1",
				CheckinDate: dbtime.DateOf(now),
				CheckinTime: dbtime.From(now),
			}
			if err := db.Session(&gorm.Session{NewDB: true}).Create(rival).Error; err != nil {
				t.Errorf("insert pesaing: %v", err)
			}
		})
	}))

	tr, rec, err := ledger.Toggle(ctx, "k1")
	require.True(t, fired)
	require.NoError(t, err)
	assert.NotErrorIs(t, err, apperr.ErrConstraintViolation)
	assert.Equal(t, model.TransitionNone, tr)
	require.NotNil(t, rec)
	assert.Nil(t, rec.CheckoutTime)
	assert.EqualValues(t, 1, countRows(t, db, "k1", "2024-01-10"))

	checkedOut, err := ledger.IsCheckedOut(ctx, "k1", dbtime.DateOf(now))
	require.NoError(t, err)
	assert.False(t, checkedOut)
}
