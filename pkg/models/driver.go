package models

import "time"

type FileKind string

const (
	FileCNH          FileKind = "cnh"
	FileCRLV         FileKind = "crlv"
	FileProfilePhoto FileKind = "profilePhoto"
	FileCarPhoto     FileKind = "carPhoto"
)

func (k FileKind) Valid() bool {
	switch k {
	case FileCNH, FileCRLV, FileProfilePhoto, FileCarPhoto:
		return true
	}
	return false
}

type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type Reference struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type VehicleInfo struct {
	Model string `json:"model"`
	Plate string `json:"plate"`
	Year  string `json:"year"`
}

// RentalBackground is the applicant's self-declared history with other fleets.
type RentalBackground struct {
	HasExperience     bool     `json:"has_experience"`
	ExperienceTypes   []string `json:"experience_types,omitempty"`
	ExperienceDetails string   `json:"experience_details,omitempty"`
	ExperienceTime    string   `json:"experience_time,omitempty"`
	HasProblems       bool     `json:"has_problems"`
	ProblemsDetails   string   `json:"problems_details,omitempty"`
	HasDebt           bool     `json:"has_debt"`
	DebtValue         string   `json:"debt_value,omitempty"`
	DebtReason        string   `json:"debt_reason,omitempty"`
}

type Driver struct {
	Base
	FirstName        string              `json:"first_name"`
	LastName         string              `json:"last_name"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
	CPF              string              `json:"cpf"`
	BirthDate        string              `json:"birth_date,omitempty"`
	Condutax         string              `json:"condutax,omitempty"`
	CondutaxValidity string              `json:"condutax_validity,omitempty"`
	LicenseNumber    string              `json:"license_number,omitempty"`
	Vehicle          *VehicleInfo        `json:"vehicle,omitempty"`
	Address          Address             `json:"address"`
	Background       RentalBackground    `json:"background"`
	References       []Reference         `json:"references"`
	Files            map[FileKind]string `json:"files,omitempty"`
	Status           DriverStatus        `json:"status"`
	LastStatusAt     *time.Time          `json:"last_status_at,omitempty"`
}

func (d *Driver) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}
