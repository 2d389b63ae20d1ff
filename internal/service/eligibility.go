package service

import (
	"sort"
	"time"

	"github.com/utkandevrim/ac/internal/model"
)

// IsDuesEligible reports whether every record except the one for the current
// (month name, year) is paid. A record with the current month name but a
// different year is not exempt. Members with no records are eligible.
func IsDuesEligible(records []model.Dues, now time.Time) bool {
	month := model.MonthName(now.Month())
	year := now.Year()
	for _, r := range records {
		if month != "" && r.Month == month && r.Year == year {
			continue
		}
		if !r.IsPaid {
			return false
		}
	}
	return true
}

// buildLedger returns one unpaid record per academic month for year.
func buildLedger(userID string, year, amount int, iban string) []model.Dues {
	records := make([]model.Dues, 0, len(model.AcademicMonths))
	for _, month := range model.AcademicMonths {
		records = append(records, model.Dues{
			UserID: userID,
			Month:  month,
			Year:   year,
			Amount: amount,
			IBAN:   iban,
		})
	}
	return records
}

// buildAcademicLedger returns the unpaid records of the academic year that
// starts in September of startYear: Eylül to Aralık in startYear, Ocak to
// Haziran in startYear+1.
func buildAcademicLedger(userID string, startYear, amount int, iban string) []model.Dues {
	records := buildLedger(userID, startYear, amount, iban)
	for i := range records {
		if monthIndex[records[i].Month] >= monthIndex["Ocak"] {
			records[i].Year = startYear + 1
		}
	}
	return records
}

// academicStartYear is the calendar year in which the academic year holding
// t began. July and August belong to the year that is ending.
func academicStartYear(t time.Time) int {
	if t.Month() >= time.September {
		return t.Year()
	}
	return t.Year() - 1
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, len(model.AcademicMonths))
	for i, name := range model.AcademicMonths {
		m[name] = i
	}
	return m
}()

// sortLedger orders records by year, then academic month.
func sortLedger(records []model.Dues) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return monthIndex[records[i].Month] < monthIndex[records[j].Month]
	})
}
