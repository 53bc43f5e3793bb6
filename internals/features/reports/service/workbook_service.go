package service

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"attendance_backend/internals/features/attendance/dto"
	"attendance_backend/internals/helpers/apperr"
	"attendance_backend/internals/helpers/dbtime"
)

// Header sheet harian.
var Header = []string{"IDENTITY", "FULL NAME", "CHECK-IN", "CHECK-OUT"}

const (
	defaultSheet = "Sheet1"
	scratchSheet = "_scratch"
)

// Satu mutex per path workbook: read-modify-write file harus serial,
// kalau tidak sheet hari lain bisa hilang (lost update).
var pathLocks sync.Map

func lockFor(path string) *sync.Mutex {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	mu, _ := pathLocks.LoadOrStore(abs, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// WorkbookService = Report Materializer: satu workbook, satu sheet per tanggal.
type WorkbookService struct {
	Path string
}

func NewWorkbookService(path string) *WorkbookService {
	return &WorkbookService{Path: path}
}

// MaterializeDay mengganti penuh sheet `day` dan membiarkan sheet lain utuh.
// Workbook rusak → ErrReportUnavailable; file lama tidak ditimpa.
func (s *WorkbookService) MaterializeDay(day dbtime.Date, records []dto.DayRecord) error {
	mu := lockFor(s.Path)
	mu.Lock()
	defer mu.Unlock()

	f, fresh, err := s.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	name := day.String()
	if err := replaceSheet(f, name, fresh); err != nil {
		return apperr.Report("replace sheet "+name, err)
	}
	if err := writeRows(f, name, records); err != nil {
		return apperr.Report("write sheet "+name, err)
	}
	if err := s.save(f); err != nil {
		return err
	}
	log.Printf("📄 sheet %s ditulis ulang (%d baris) → %s", name, len(records), s.Path)
	return nil
}

// ReadDay membaca balik sheet `day`; tiap baris dipad ke 4 kolom.
func (s *WorkbookService) ReadDay(day dbtime.Date) ([][]string, error) {
	mu := lockFor(s.Path)
	mu.Lock()
	defer mu.Unlock()

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, apperr.Report("open workbook", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(day.String())
	if err != nil {
		return nil, apperr.Report("read sheet "+day.String(), err)
	}
	for i := range rows {
		for len(rows[i]) < len(Header) {
			rows[i] = append(rows[i], "")
		}
	}
	return rows, nil
}

// SheetNames: daftar sheet yang ada di workbook.
func (s *WorkbookService) SheetNames() ([]string, error) {
	mu := lockFor(s.Path)
	mu.Lock()
	defer mu.Unlock()

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, apperr.Report("open workbook", err)
	}
	defer func() { _ = f.Close() }()
	return f.GetSheetList(), nil
}

// Bytes: isi file workbook apa adanya (untuk download).
func (s *WorkbookService) Bytes() ([]byte, error) {
	mu := lockFor(s.Path)
	mu.Lock()
	defer mu.Unlock()

	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, apperr.Report("read workbook", err)
	}
	return b, nil
}

// open: file belum ada → workbook baru; ada tapi tak terbaca → error.
func (s *WorkbookService) open() (*excelize.File, bool, error) {
	_, err := os.Stat(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	if err != nil {
		return nil, false, apperr.Report("stat workbook", err)
	}
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, false, apperr.Report("open workbook", err)
	}
	return f, false, nil
}

// replaceSheet membuang sheet lama (kalau ada) dan membuat sheet kosong.
// Sheet scratch dipakai karena excelize tidak mau menghapus sheet terakhir.
func replaceSheet(f *excelize.File, name string, fresh bool) error {
	if _, err := f.NewSheet(scratchSheet); err != nil {
		return err
	}
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return err
	}
	if idx >= 0 {
		if err := f.DeleteSheet(name); err != nil {
			return err
		}
	}
	if fresh {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return err
		}
	}
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := f.DeleteSheet(scratchSheet); err != nil {
		return err
	}
	idx, err = f.GetSheetIndex(name)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return nil
}

func writeRows(f *excelize.File, sheet string, records []dto.DayRecord) error {
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.VDash, r.FullName, r.CheckinTime, r.CheckoutTime}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "D", 22)
}

// save: tulis ke file sementara di folder yang sama lalu rename (atomik).
func (s *WorkbookService) save(f *excelize.File) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.Report("mkdir "+dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".workbook-*.xlsx")
	if err != nil {
		return apperr.Report("create temp workbook", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return apperr.Report("write workbook", err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.Report("close workbook", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return apperr.Report(fmt.Sprintf("rename %s", s.Path), err)
	}
	return nil
}
