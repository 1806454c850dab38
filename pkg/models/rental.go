package models

import "time"

type RentalDocuments struct {
	CNH       string `json:"cnh,omitempty"`
	CRLV      string `json:"crlv,omitempty"`
	Insurance string `json:"insurance,omitempty"`
}

type RentalRequest struct {
	Base
	DriverID      string          `json:"driver_id"`
	DriverName    string          `json:"driver_name"`
	VehicleID     string          `json:"vehicle_id,omitempty"`
	VehicleType   string          `json:"vehicle_type"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TotalDays     int             `json:"total_days"`
	DailyRate     float64         `json:"daily_rate"`
	TotalAmount   float64         `json:"total_amount"`
	Status        RentalStatus    `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Documents     RentalDocuments `json:"documents"`
	Notes         string          `json:"notes,omitempty"`
	CalendarLink  string          `json:"calendar_link,omitempty"`
}

// RentalDays counts the nights between the start and end dates: the end
// day itself is not billed. Same-day or reversed ranges count as one day.
func RentalDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int(e.Sub(s).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
