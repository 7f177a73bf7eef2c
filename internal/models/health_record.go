package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BloodPressure is a systolic/diastolic reading in mmHg.
type BloodPressure struct {
	Systolic  float64 `bson:"systolic" json:"systolic"`
	Diastolic float64 `bson:"diastolic" json:"diastolic"`
}

// RecordStatus carries the reference-range classification for each metric.
// Derived on the way out, never stored.
type RecordStatus struct {
	BodyTemperature string `json:"bodyTemperature"`
	BloodPressure   string `json:"bloodPressure"`
	HeartRate       string `json:"heartRate"`
	BMI             string `json:"bmi"`
}

// HealthRecord is a single health reading stored in MongoDB, always tagged
// with the id of the user it belongs to.
type HealthRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`

	UserID          string        `bson:"user_id" json:"userId"`
	Date            time.Time     `bson:"date" json:"date"`
	BodyTemperature float64       `bson:"body_temperature" json:"bodyTemperature"`
	BloodPressure   BloodPressure `bson:"blood_pressure" json:"bloodPressure"`
	HeartRate       float64       `bson:"heart_rate" json:"heartRate"`
	BMI             float64       `bson:"bmi" json:"bmi"`

	Status *RecordStatus `bson:"-" json:"status,omitempty"`
}
