package services

import (
	"context"
	"time"

	"github.com/fitmi/fitmi-backend/internal/models"
)

// ReadingInput carries the metric fields of a health record submission.
// Presence of every field has already been established by the boundary; the
// service enforces value-level invariants.
type ReadingInput struct {
	Date            time.Time
	BodyTemperature float64
	Systolic        float64
	Diastolic       float64
	HeartRate       float64
	BMI             float64
}

func (in *ReadingInput) validate() error {
	if in.Date.IsZero() {
		return invalid("Date must be a valid calendar date")
	}
	if in.BodyTemperature <= 0 || in.Systolic <= 0 || in.Diastolic <= 0 ||
		in.HeartRate <= 0 || in.BMI <= 0 {
		return invalid("All metric values must be greater than zero")
	}
	return nil
}

// RecordService owns health-record CRUD. Every operation takes the owning
// user id explicitly; callers are expected to derive it from verified token
// claims, never from untrusted input.
type RecordService struct {
	records RecordStore
	cache   RecordCache
}

func NewRecordService(records RecordStore, cache RecordCache) *RecordService {
	return &RecordService{records: records, cache: cache}
}

// List returns all records owned by ownerID, filtered and sorted per opts,
// with derived classification attached. Results come from the cache when a
// fresh copy exists.
func (s *RecordService) List(ctx context.Context, ownerID string, opts ListOptions) ([]models.HealthRecord, error) {
	var records []models.HealthRecord
	var cached bool

	if s.cache != nil {
		records, cached = s.cache.GetList(ctx, ownerID)
	}
	if !cached {
		var err error
		records, err = s.records.ListByUser(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.SetList(ctx, ownerID, records)
		}
	}

	records = FilterRecords(records, opts.Search)
	SortRecords(records, opts.Sort, opts.Order)
	for i := range records {
		records[i].Status = Classify(&records[i])
	}
	return records, nil
}

// Create persists a new reading for ownerID with server-assigned timestamps.
func (s *RecordService) Create(ctx context.Context, ownerID string, in ReadingInput) (*models.HealthRecord, error) {
	if ownerID == "" {
		return nil, ErrValidation
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &models.HealthRecord{
		CreatedAt:       now,
		UpdatedAt:       now,
		UserID:          ownerID,
		Date:            in.Date,
		BodyTemperature: in.BodyTemperature,
		BloodPressure:   models.BloodPressure{Systolic: in.Systolic, Diastolic: in.Diastolic},
		HeartRate:       in.HeartRate,
		BMI:             in.BMI,
	}

	if err := s.records.Insert(ctx, rec); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)

	rec.Status = Classify(rec)
	return rec, nil
}

// Get returns a single record owned by ownerID.
func (s *RecordService) Get(ctx context.Context, ownerID, id string) (*models.HealthRecord, error) {
	rec, err := s.records.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	rec.Status = Classify(rec)
	return rec, nil
}

// Update replaces all metric fields of an existing record. The owner and
// creation timestamp survive the replacement.
func (s *RecordService) Update(ctx context.Context, ownerID, id string, in ReadingInput) (*models.HealthRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	rec, err := s.records.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	rec.Date = in.Date
	rec.BodyTemperature = in.BodyTemperature
	rec.BloodPressure = models.BloodPressure{Systolic: in.Systolic, Diastolic: in.Diastolic}
	rec.HeartRate = in.HeartRate
	rec.BMI = in.BMI
	rec.UpdatedAt = time.Now()

	if err := s.records.Replace(ctx, rec); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)

	rec.Status = Classify(rec)
	return rec, nil
}

// Delete removes a record owned by ownerID.
func (s *RecordService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.records.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

func (s *RecordService) invalidate(ctx context.Context, ownerID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ownerID)
	}
}
