package models

type StatusCounts map[string]int

type DashboardStats struct {
	Drivers              StatusCounts     `json:"drivers"`
	TotalDrivers         int              `json:"total_drivers"`
	ActiveDriversPercent int              `json:"active_drivers_percent"`
	Applications         StatusCounts     `json:"applications"`
	TotalApplications    int              `json:"total_applications"`
	PendingAppsPercent   int              `json:"pending_applications_percent"`
	Evaluations          StatusCounts     `json:"evaluations"`
	TotalEvaluations     int              `json:"total_evaluations"`
	AverageRating        float64          `json:"average_rating"`
	PositiveEvaluations  int              `json:"positive_evaluations"`
	NegativeEvaluations  int              `json:"negative_evaluations"`
	Rentals              StatusCounts     `json:"rentals"`
	TotalRentals         int              `json:"total_rentals"`
	RecentDrivers        []*Driver        `json:"recent_drivers"`
	RecentEvaluations    []*Evaluation    `json:"recent_evaluations"`
	RecentRentals        []*RentalRequest `json:"recent_rentals"`
}
