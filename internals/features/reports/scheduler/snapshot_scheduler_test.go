package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance_backend/internals/features/attendance/service"
	reportService "attendance_backend/internals/features/reports/service"
	rosterService "attendance_backend/internals/features/roster/service"
	"attendance_backend/internals/helpers/dbtime"
	"attendance_backend/internals/testutil"
)

type memUploader struct {
	objects map[string][]byte
	err     error
}

func (m *memUploader) Put(_ context.Context, key string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.objects[key] = body
	return nil
}

func newJob(t *testing.T) (*SnapshotJob, *reportService.WorkbookService) {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, "xy7", "Mario", "", "Rossi", "tok")
	clock := dbtime.NewFixedClock(testutil.At("2024-01-10", 8, 1, 15))
	ledger := service.NewLedgerService(db, clock, testutil.WIB)
	wb := reportService.NewWorkbookService(filepath.Join(t.TempDir(), "checkins.xlsx"))
	svc := service.NewAttendanceService(rosterService.NewRosterService(db), ledger, service.NewDayQueryService(db), wb)
	_, err := svc.Toggle(context.Background(), "xy7")
	require.NoError(t, err)
	return &SnapshotJob{Svc: svc}, wb
}

func TestSnapshotWritesTodayAndUploads(t *testing.T) {
	job, wb := newJob(t)
	up := &memUploader{objects: map[string][]byte{}}
	job.Uploader = up

	require.NoError(t, job.Run(context.Background()))

	rows, err := wb.ReadDay(job.Svc.Today())
	require.NoError(t, err)
	assert.Equal(t, []string{"XY7", "MARIO ROSSI", "08:01", ""}, rows[1])
	assert.Contains(t, up.objects, "checkins_2024-01-10.xlsx")
	assert.NotEmpty(t, up.objects["checkins_2024-01-10.xlsx"])
}

func TestSnapshotWithoutUploader(t *testing.T) {
	job, _ := newJob(t)
	assert.NoError(t, job.Run(context.Background()))
}

func TestSnapshotUploadFailure(t *testing.T) {
	job, _ := newJob(t)
	job.Uploader = &memUploader{err: errors.New("network down")}
	assert.Error(t, job.Run(context.Background()))
}

func TestStart(t *testing.T) {
	job, _ := newJob(t)

	c, err := Start("off", testutil.WIB, job)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = Start("not a schedule", testutil.WIB, job)
	assert.Error(t, err)

	c, err = Start("55 23 * * *", testutil.WIB, job)
	require.NoError(t, err)
	require.NotNil(t, c)
	defer c.Stop()
	require.Len(t, c.Entries(), 1)
	assert.Equal(t, 23, c.Entries()[0].Next.Hour())
	assert.Equal(t, 55, c.Entries()[0].Next.Minute())
}
