package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"attendance_backend/internals/features/attendance/service"
	"attendance_backend/internals/helpers/oss"
)

// SnapshotJob: rematerialize sheet hari ini, lalu (opsional) backup workbook ke OSS.
type SnapshotJob struct {
	Svc      *service.AttendanceService
	Uploader oss.Uploader
}

func (j *SnapshotJob) Run(ctx context.Context) error {
	day := j.Svc.Today()
	b, err := j.Svc.ExportReport(ctx, day)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", day, err)
	}
	log.Printf("[SNAPSHOT] sheet %s ditulis (%d bytes)", day, len(b))

	if j.Uploader == nil {
		return nil
	}
	key := fmt.Sprintf("checkins_%s.xlsx", day)
	if err := j.Uploader.Put(ctx, key, b); err != nil {
		return fmt.Errorf("snapshot %s: %w", day, err)
	}
	log.Printf("[SNAPSHOT] backup %s terkirim ke OSS", key)
	return nil
}

// Disabled: jadwal kosong atau "off".
func Disabled(schedule string) bool {
	s := strings.ToLower(strings.TrimSpace(schedule))
	return s == "" || s == "off"
}

// Start memasang job di cron (zona deployment). Jadwal dimatikan → nil, nil.
func Start(schedule string, loc *time.Location, job *SnapshotJob) (*cron.Cron, error) {
	if Disabled(schedule) {
		log.Println("[SNAPSHOT] scheduler dimatikan")
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := job.Run(ctx); err != nil {
			log.Printf("[SNAPSHOT] error: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("jadwal snapshot %q: %w", schedule, err)
	}

	log.Printf("[SNAPSHOT] started schedule=%q tz=%s oss=%v", schedule, loc, job.Uploader != nil)
	c.Start()
	return c, nil
}
