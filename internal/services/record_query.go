package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fitmi/fitmi-backend/internal/models"
)

// Sortable record fields.
const (
	SortByDate          = "date"
	SortByTemperature   = "bodyTemperature"
	SortByBloodPressure = "bloodPressure"
	SortByHeartRate     = "heartRate"
	SortByBMI           = "bmi"
)

// ListOptions control server-side filtering and ordering of a record list.
type ListOptions struct {
	Search string // substring matched against stringified field values
	Sort   string // one of the SortBy* fields; empty keeps store order
	Order  string // "asc" or "desc", default asc
}

// Metric classification labels.
const (
	StatusLow         = "low"
	StatusNormal      = "normal"
	StatusHigh        = "high"
	StatusUnderweight = "underweight"
	StatusOverweight  = "overweight"
)

// Classify derives the reference-range label for each metric of a record.
// Labels are display hints only and are never stored.
func Classify(rec *models.HealthRecord) *models.RecordStatus {
	st := &models.RecordStatus{}

	switch {
	case rec.BodyTemperature < 97.7:
		st.BodyTemperature = StatusLow
	case rec.BodyTemperature > 99.5:
		st.BodyTemperature = StatusHigh
	default:
		st.BodyTemperature = StatusNormal
	}

	bp := rec.BloodPressure
	switch {
	case bp.Systolic < 90 || bp.Diastolic < 60:
		st.BloodPressure = StatusLow
	case bp.Systolic < 140 && bp.Diastolic < 90:
		st.BloodPressure = StatusNormal
	default:
		st.BloodPressure = StatusHigh
	}

	switch {
	case rec.HeartRate < 60:
		st.HeartRate = StatusLow
	case rec.HeartRate > 100:
		st.HeartRate = StatusHigh
	default:
		st.HeartRate = StatusNormal
	}

	switch {
	case rec.BMI < 18.5:
		st.BMI = StatusUnderweight
	case rec.BMI < 25:
		st.BMI = StatusNormal
	default:
		st.BMI = StatusOverweight
	}

	return st
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// matchesSearch reports whether any stringified field value of rec contains
// term (case-insensitive).
func matchesSearch(rec *models.HealthRecord, term string) bool {
	term = strings.ToLower(term)
	values := []string{
		rec.Date.Format("2006-01-02"),
		formatNumber(rec.BodyTemperature),
		formatNumber(rec.BloodPressure.Systolic),
		formatNumber(rec.BloodPressure.Diastolic),
		formatNumber(rec.BloodPressure.Systolic) + "/" + formatNumber(rec.BloodPressure.Diastolic),
		formatNumber(rec.HeartRate),
		formatNumber(rec.BMI),
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// FilterRecords returns the records whose stringified values contain search.
// An empty search keeps everything.
func FilterRecords(records []models.HealthRecord, search string) []models.HealthRecord {
	search = strings.TrimSpace(search)
	if search == "" {
		return records
	}
	filtered := []models.HealthRecord{}
	for i := range records {
		if matchesSearch(&records[i], search) {
			filtered = append(filtered, records[i])
		}
	}
	return filtered
}

// SortRecords orders records by the given field. Blood pressure compares
// systolic first and breaks ties by diastolic. Unknown fields leave the
// order untouched. The sort is stable, so sorting ascending after descending
// restores the original ascending order.
func SortRecords(records []models.HealthRecord, field, order string) {
	desc := order == "desc"

	var less func(a, b *models.HealthRecord) bool
	switch field {
	case SortByDate:
		less = func(a, b *models.HealthRecord) bool { return a.Date.Before(b.Date) }
	case SortByTemperature:
		less = func(a, b *models.HealthRecord) bool { return a.BodyTemperature < b.BodyTemperature }
	case SortByBloodPressure:
		less = func(a, b *models.HealthRecord) bool {
			if a.BloodPressure.Systolic != b.BloodPressure.Systolic {
				return a.BloodPressure.Systolic < b.BloodPressure.Systolic
			}
			return a.BloodPressure.Diastolic < b.BloodPressure.Diastolic
		}
	case SortByHeartRate:
		less = func(a, b *models.HealthRecord) bool { return a.HeartRate < b.HeartRate }
	case SortByBMI:
		less = func(a, b *models.HealthRecord) bool { return a.BMI < b.BMI }
	default:
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		if desc {
			return less(&records[j], &records[i])
		}
		return less(&records[i], &records[j])
	})
}
