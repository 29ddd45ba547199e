package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bekzod-dev/maktab-api/internal/dto"
	"github.com/bekzod-dev/maktab-api/internal/models"
	"github.com/bekzod-dev/maktab-api/internal/timetable"
	appErrors "github.com/bekzod-dev/maktab-api/pkg/errors"
	"github.com/bekzod-dev/maktab-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered export ready to be served.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders lesson listings as CSV or PDF. Exports are built
// synchronously; the datasets are one week of lessons at most.
type ExportService struct {
	lessons lessonRepository
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(lessons lessonRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{lessons: lessons, csv: csv, pdf: pdf, logger: logger}
}

var exportHeaders = []string{"Date", "Day", "Lesson", "Start", "End", "Class", "Subject", "Teacher", "Room", "Status"}

// ExportLessons renders the lessons matching the filter in the requested
// format ("csv" or "pdf"), sorted by date and start time.
func (s *ExportService) ExportLessons(ctx context.Context, filter models.LessonFilter, format string) (*ExportResult, error) {
	format = strings.ToLower(format)
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	filter.PageSize = 200
	var lessons []models.LessonInstance
	for page := 1; ; page++ {
		filter.Page = page
		batch, total, err := s.lessons.List(ctx, filter)
		if err != nil {
			return nil, wrapStoreError(err, "failed to list lessons for export")
		}
		lessons = append(lessons, batch...)
		if len(batch) == 0 || len(lessons) >= total {
			break
		}
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(lessons))}
	for _, lesson := range lessons {
		room := ""
		if lesson.RoomID != nil {
			room = *lesson.RoomID
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":    lesson.Date.Format(dto.DateLayout),
			"Day":     timetable.WeekdayOf(lesson.Date).String(),
			"Lesson":  fmt.Sprintf("%d", lesson.LessonNumber),
			"Start":   lesson.StartTime,
			"End":     lesson.EndTime,
			"Class":   lesson.ClassID,
			"Subject": lesson.SubjectName,
			"Teacher": lesson.TeacherName,
			"Room":    room,
			"Status":  string(lesson.Status),
		})
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("lessons-%s.csv", stamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	default:
		payload, err := s.pdf.Render(dataset, "Lesson schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("lessons-%s.pdf", stamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	}
}
