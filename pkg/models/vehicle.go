package models

type Vehicle struct {
	Base
	Make         string   `json:"make" yaml:"make"`
	Model        string   `json:"model" yaml:"model"`
	Year         string   `json:"year" yaml:"year"`
	Category     string   `json:"category" yaml:"category"`
	Fuel         string   `json:"fuel" yaml:"fuel"`
	Plate        string   `json:"plate,omitempty" yaml:"plate"`
	DailyPrice   float64  `json:"daily_price" yaml:"daily_price"`
	WeeklyPrice  float64  `json:"weekly_price" yaml:"weekly_price"`
	MonthlyPrice float64  `json:"monthly_price" yaml:"monthly_price"`
	Features     []string `json:"features" yaml:"features"`
	ImageURL     string   `json:"image_url" yaml:"image_url"`
	Available    bool     `json:"available" yaml:"available"`
	Featured     bool     `json:"featured" yaml:"featured"`
	Accessible   bool     `json:"accessible" yaml:"accessible"`
}
