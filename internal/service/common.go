package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/BrianLien09/schedule-app/internal/model"
	apperrors "github.com/BrianLien09/schedule-app/pkg/errors"
)

// mapNotFound 將儲存層的 ErrDocumentNotFound 換成模組自己的錯誤
func mapNotFound(err, notFound error) error {
	if errors.Is(err, apperrors.ErrDocumentNotFound) {
		return notFound
	}
	return err
}

func newID() string {
	return uuid.NewString()
}

// sortCourses 依星期、開始時間排序，星期日排最後
func sortCourses(courses []model.Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Day != courses[j].Day {
			return courses[i].Day < courses[j].Day
		}
		return courses[i].StartTime < courses[j].StartTime
	})
}

func sortWorkShifts(shifts []model.WorkShift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].Date != shifts[j].Date {
			return shifts[i].Date < shifts[j].Date
		}
		return shifts[i].StartTime < shifts[j].StartTime
	})
}

func sortSalaryRecords(records []model.SalaryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].StartTime < records[j].StartTime
	})
}

func sortEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })
}

// inMonth month 為 YYYY-MM；空字串表示不篩選
func inMonth(date, month string) bool {
	return month == "" || strings.HasPrefix(date, month+"-")
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
