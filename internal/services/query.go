package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "prodash/internal/errors"
	"prodash/internal/pagination"
)

// monthWindow returns the first and last instant of a calendar month in UTC.
func monthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// previousMonth wraps January back to December of the prior year.
func previousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

func validateYearMonth(year, month int) error {
	if month < 1 || month > 12 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	}
	return nil
}

func validateSortDir(dir pagination.SortDirection) error {
	switch dir {
	case "", pagination.SortAsc, pagination.SortDesc:
		return nil
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, "sort direction must be 'asc' or 'desc'")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsFold adds a case-insensitive substring match on column. LIKE
// wildcards in q match literally.
func containsFold(column, q string) func(db *gorm.DB) *gorm.DB {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(db *gorm.DB) *gorm.DB {
		if q == "" {
			return db
		}
		return db.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(q)+"%")
	}
}

func inWindow(column string, from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" <= ?", from, to)
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
