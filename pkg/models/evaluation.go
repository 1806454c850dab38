package models

import "time"

type Evaluation struct {
	Base
	DriverID        string           `json:"driver_id"`
	DriverName      string           `json:"driver_name"`
	Rating          int              `json:"rating"`
	Comment         string           `json:"comment"`
	EvaluatorName   string           `json:"evaluator_name"`
	EvaluatorEmail  string           `json:"evaluator_email,omitempty"`
	EvaluatorRole   string           `json:"evaluator_role,omitempty"`
	VehicleType     string           `json:"vehicle_type,omitempty"`
	RentalPeriod    string           `json:"rental_period,omitempty"`
	Strengths       []string         `json:"strengths,omitempty"`
	Weaknesses      []string         `json:"weaknesses,omitempty"`
	Recommendations string           `json:"recommendations,omitempty"`
	IsPublic        bool             `json:"is_public"`
	Status          EvaluationStatus `json:"status"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	ApprovedBy      string           `json:"approved_by,omitempty"`
}

// RatingSummary is the aggregate shown next to a driver or on the dashboard.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// AverageRating returns sum/count, or 0 for an empty list.
func AverageRating(evals []*Evaluation) float64 {
	if len(evals) == 0 {
		return 0
	}
	sum := 0
	for _, e := range evals {
		sum += e.Rating
	}
	return float64(sum) / float64(len(evals))
}
