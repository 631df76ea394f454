package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BrianLien09/schedule-app/internal/calendar"
	"github.com/BrianLien09/schedule-app/internal/dto"
	"github.com/BrianLien09/schedule-app/internal/export"
	"github.com/BrianLien09/schedule-app/internal/model"
	"github.com/BrianLien09/schedule-app/internal/repository"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
	"github.com/BrianLien09/schedule-app/pkg/metrics"
)

// ── 匯出模組業務錯誤 ──

var (
	ErrUnknownExportKind  = errors.New("不支援的匯出種類")
	ErrExportGenerateFail = errors.New("產生匯出檔案失敗")
)

// 匯出種類
const (
	ExportKindCourses         = "courses"
	ExportKindWorkShifts      = "work-shifts"
	ExportKindEvents          = "events"
	ExportKindAll             = "all"
	ExportKindSalary          = "salary"
	ExportKindSalaryStatement = "salary-statement"
)

// ExportFile 交給 Handler 寫成附件的檔案
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService 匯出業務介面
//
// 所有匯出都以 []byte 回傳，由 Handler 設定 Content-Disposition 後寫出。
// 班次與薪資的匯出可用 Month 篩選，課程與事件忽略 Month。
type ExportService interface {
	// ICS kind: courses | work-shifts | events | all
	ICS(ctx context.Context, kind string) (*ExportFile, error)
	// CSV kind: courses | work-shifts | salary
	CSV(ctx context.Context, kind string, req *dto.ExportRequest) (*ExportFile, error)
	// Workbook kind: courses | work-shifts | salary | salary-statement
	Workbook(ctx context.Context, kind string, req *dto.ExportRequest) (*ExportFile, error)
	SalaryPDF(ctx context.Context, req *dto.ExportRequest) (*ExportFile, error)
}

type exportService struct {
	repo        *repository.Repository
	writer      *calendar.Writer
	pdfFontPath string
	loc         *time.Location
	now         func() time.Time
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewExportService writer 負責 ICS；pdfFontPath 為空時 PDF 使用內建字型
func NewExportService(repo *repository.Repository, writer *calendar.Writer, pdfFontPath string, m *metrics.Metrics, logger *zap.Logger) ExportService {
	loc := time.Local
	if writer != nil {
		loc = writer.Location()
	}
	return &exportService{
		repo:        repo,
		writer:      writer,
		pdfFontPath: pdfFontPath,
		loc:         loc,
		now:         time.Now,
		metrics:     m,
		logger:      logger,
	}
}

// ────────────────────── ICS ──────────────────────

func (s *exportService) ICS(ctx context.Context, kind string) (*ExportFile, error) {
	now := s.now()
	file := &ExportFile{ContentType: calendar.ContentType}

	switch kind {
	case ExportKindCourses:
		courses, err := s.courses(ctx)
		if err != nil {
			return nil, err
		}
		file.Filename = calendar.FilenameCourses
		file.Data = []byte(s.writer.WriteCourses(courses, now))
	case ExportKindWorkShifts:
		shifts, err := s.workShifts(ctx, "")
		if err != nil {
			return nil, err
		}
		file.Filename = calendar.FilenameWork
		file.Data = []byte(s.writer.WriteWorkShifts(shifts, now))
	case ExportKindEvents:
		events, err := s.events(ctx)
		if err != nil {
			return nil, err
		}
		file.Filename = calendar.FilenameEvents
		file.Data = []byte(s.writer.WriteEvents(events, now))
	case ExportKindAll:
		courses, err := s.courses(ctx)
		if err != nil {
			return nil, err
		}
		shifts, err := s.workShifts(ctx, "")
		if err != nil {
			return nil, err
		}
		events, err := s.events(ctx)
		if err != nil {
			return nil, err
		}
		file.Filename = calendar.FilenameAll
		file.Data = []byte(s.writer.WriteAll(courses, shifts, events, now))
	default:
		return nil, ErrUnknownExportKind
	}

	s.metrics.RecordExport("ics", kind)
	return file, nil
}

// ────────────────────── CSV ──────────────────────

func (s *exportService) CSV(ctx context.Context, kind string, req *dto.ExportRequest) (*ExportFile, error) {
	var (
		data     []byte
		filename string
		err      error
	)

	switch kind {
	case ExportKindCourses:
		var courses []model.Course
		if courses, err = s.courses(ctx); err != nil {
			return nil, err
		}
		data, err = export.CoursesCSV(courses)
		filename = export.FilenameCoursesCSV
	case ExportKindWorkShifts:
		var shifts []model.WorkShift
		if shifts, err = s.workShifts(ctx, req.Month); err != nil {
			return nil, err
		}
		data, err = export.WorkShiftsCSV(shifts)
		filename = export.FilenameShiftsCSV
	case ExportKindSalary:
		var records []model.SalaryRecord
		if records, err = s.salaryRecords(ctx, req.Month); err != nil {
			return nil, err
		}
		data, err = export.SalaryCSV(records)
		filename = export.FilenameSalaryCSV
	default:
		return nil, ErrUnknownExportKind
	}
	if err != nil {
		s.logger.Warn("CSV 匯出失敗", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordExport("csv", kind)
	return &ExportFile{Filename: filename, ContentType: export.CSVContentType, Data: data}, nil
}

// ────────────────────── XLSX ──────────────────────

func (s *exportService) Workbook(ctx context.Context, kind string, req *dto.ExportRequest) (*ExportFile, error) {
	var (
		data     []byte
		filename string
		err      error
	)
	today := s.now().In(s.loc)

	switch kind {
	case ExportKindCourses:
		var courses []model.Course
		if courses, err = s.courses(ctx); err != nil {
			return nil, err
		}
		data, err = export.CoursesWorkbook(courses)
		filename = export.FilenameCoursesXLSX
	case ExportKindWorkShifts:
		var shifts []model.WorkShift
		if shifts, err = s.workShifts(ctx, req.Month); err != nil {
			return nil, err
		}
		data, err = export.WorkShiftsWorkbook(shifts)
		filename = export.FilenameShiftsXLSX
	case ExportKindSalary:
		var records []model.SalaryRecord
		if records, err = s.salaryRecords(ctx, req.Month); err != nil {
			return nil, err
		}
		data, err = export.SalaryWorkbook(records)
		filename = export.SalaryWorkbookFilename(today)
	case ExportKindSalaryStatement:
		var records []model.SalaryRecord
		if records, err = s.salaryRecords(ctx, req.Month); err != nil {
			return nil, err
		}
		data, err = export.SalaryStatementWorkbook(records)
		filename = export.SalaryStatementFilename(today)
	default:
		return nil, ErrUnknownExportKind
	}
	if err != nil {
		return nil, s.generateError("xlsx", kind, err)
	}

	s.metrics.RecordExport("xlsx", kind)
	return &ExportFile{Filename: filename, ContentType: export.XLSXContentType, Data: data}, nil
}

// ────────────────────── PDF ──────────────────────

func (s *exportService) SalaryPDF(ctx context.Context, req *dto.ExportRequest) (*ExportFile, error) {
	records, err := s.salaryRecords(ctx, req.Month)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	title := "薪資報表"
	if req.Month != "" {
		title = fmt.Sprintf("薪資報表 %s", req.Month)
	}
	data, err := export.SalaryPDF(records, export.PDFOptions{
		FontPath:    s.pdfFontPath,
		Title:       title,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, s.generateError("pdf", ExportKindSalary, err)
	}

	s.metrics.RecordExport("pdf", ExportKindSalary)
	return &ExportFile{Filename: export.SalaryPDFFilename(now), ContentType: export.PDFContentType, Data: data}, nil
}

// generateError 資料驗證錯誤原樣回傳，其餘視為產生失敗
func (s *exportService) generateError(format, kind string, err error) error {
	if _, ok := apperrors.IsValidation(err); ok {
		s.logger.Warn("匯出資料驗證失敗", zap.String("format", format), zap.String("kind", kind), zap.Error(err))
		return err
	}
	s.logger.Error("產生匯出檔案失敗", zap.String("format", format), zap.String("kind", kind), zap.Error(err))
	return fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
}

// ────────────────────── 資料讀取 ──────────────────────

func (s *exportService) courses(ctx context.Context) ([]model.Course, error) {
	courses, err := s.repo.Courses.List(ctx)
	if err != nil {
		s.logger.Error("讀取課程失敗", zap.Error(err))
		return nil, err
	}
	sortCourses(courses)
	return courses, nil
}

func (s *exportService) workShifts(ctx context.Context, month string) ([]model.WorkShift, error) {
	all, err := s.repo.WorkShifts.List(ctx)
	if err != nil {
		s.logger.Error("讀取班次失敗", zap.Error(err))
		return nil, err
	}
	out := make([]model.WorkShift, 0, len(all))
	for _, w := range all {
		if inMonth(w.Date, month) {
			out = append(out, w)
		}
	}
	sortWorkShifts(out)
	return out, nil
}

func (s *exportService) events(ctx context.Context) ([]model.Event, error) {
	events, err := s.repo.Events.List(ctx)
	if err != nil {
		s.logger.Error("讀取事件失敗", zap.Error(err))
		return nil, err
	}
	sortEvents(events)
	return events, nil
}

func (s *exportService) salaryRecords(ctx context.Context, month string) ([]model.SalaryRecord, error) {
	all, err := s.repo.SalaryRecords.List(ctx)
	if err != nil {
		s.logger.Error("讀取薪資記錄失敗", zap.Error(err))
		return nil, err
	}
	out := make([]model.SalaryRecord, 0, len(all))
	for _, r := range all {
		if inMonth(r.Date, month) {
			out = append(out, r)
		}
	}
	sortSalaryRecords(out)
	return out, nil
}
