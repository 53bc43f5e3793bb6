package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance_backend/internals/features/attendance/dto"
	"attendance_backend/internals/helpers/dbtime"
	"attendance_backend/internals/testutil"
)

func TestRecordsForDayOrderingAndFormatting(t *testing.T) {
	ledger, _, db := newLedger(t, testutil.At("2024-01-10", 8, 0, 0))
	testutil.SeedUser(t, db, "xy7", "Mario", "", "Rossi", "t1")
	testutil.SeedUser(t, db, "ab12", "anna", "maria", "bianchi", "t2")
	testutil.SeedUser(t, db, "cd34", "Cid", "", "Dee", "t3")
	testutil.SeedUser(t, db, "zz99", "Zed", "", "Zulu", "t4")
	ctx := context.Background()

	_, err := ledger.CheckIn(ctx, "zz99", testutil.At("2024-01-10", 8, 1, 59))
	require.NoError(t, err)
	_, err = ledger.CheckIn(ctx, "xy7", testutil.At("2024-01-10", 8, 1, 15))
	require.NoError(t, err)
	// seri jam check-in dengan xy7 → urut vdash
	_, err = ledger.CheckIn(ctx, "ab12", testutil.At("2024-01-10", 8, 1, 15))
	require.NoError(t, err)
	_, err = ledger.CheckIn(ctx, "cd34", testutil.At("2024-01-10", 7, 55, 0))
	require.NoError(t, err)
	_, err = ledger.CheckOut(ctx, "xy7", testutil.At("2024-01-10", 17, 30, 2))
	require.NoError(t, err)

	// hari lain tidak ikut
	_, err = ledger.CheckIn(ctx, "xy7", testutil.At("2024-01-11", 8, 0, 0))
	require.NoError(t, err)

	day, err := dbtime.ParseDate("2024-01-10")
	require.NoError(t, err)
	got, err := NewDayQueryService(db).RecordsForDay(ctx, day)
	require.NoError(t, err)

	assert.Equal(t, []dto.DayRecord{
		{VDash: "CD34", FullName: "CID DEE", CheckinTime: "07:55", CheckoutTime: ""},
		{VDash: "AB12", FullName: "ANNA MARIA BIANCHI", CheckinTime: "08:01", CheckoutTime: ""},
		{VDash: "XY7", FullName: "MARIO ROSSI", CheckinTime: "08:01", CheckoutTime: "17:30"},
		{VDash: "ZZ99", FullName: "ZED ZULU", CheckinTime: "08:01", CheckoutTime: ""},
	}, got)
}

func TestRecordsForDayExcludesOrphans(t *testing.T) {
	ledger, _, db := newLedger(t, testutil.At("2024-01-10", 8, 0, 0))
	testutil.SeedUser(t, db, "known", "Known", "", "Person", "t1")
	ctx := context.Background()

	_, err := ledger.CheckIn(ctx, "known", testutil.At("2024-01-10", 9, 0, 0))
	require.NoError(t, err)
	_, err = ledger.CheckIn(ctx, "ghost", testutil.At("2024-01-10", 8, 0, 0))
	require.NoError(t, err)

	got, err := NewDayQueryService(db).RecordsForDay(ctx, dbtime.DateOf(testutil.At("2024-01-10", 0, 0, 0)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KNOWN", got[0].VDash)
}

func TestRecordsForEmptyDay(t *testing.T) {
	_, _, db := newLedger(t, testutil.At("2024-01-10", 8, 0, 0))
	got, err := NewDayQueryService(db).RecordsForDay(context.Background(), dbtime.DateOf(testutil.At("2024-01-10", 0, 0, 0)))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
