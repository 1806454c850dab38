package models

import "time"

type OtherDocument struct {
	Type   string `json:"type"`
	Status bool   `json:"status"`
}

// ApplicationDocuments tracks which documents the reviewer has checked.
type ApplicationDocuments struct {
	CNH                 bool            `json:"cnh"`
	Condutax            bool            `json:"condutax"`
	CertidaoProntuario  bool            `json:"certidao_prontuario"`
	ComprovanteEndereco bool            `json:"comprovante_endereco"`
	Others              []OtherDocument `json:"others"`
}

type RentalHistory struct {
	Fleet    string `json:"fleet"`
	Duration string `json:"duration"`
	Notes    string `json:"notes"`
}

type Experience struct {
	Years   int             `json:"years"`
	Rentals []RentalHistory `json:"rentals"`
}

// Review is one analyst pass over an application.
type Review struct {
	ID                 string            `json:"id"`
	Analyst            string            `json:"analyst"`
	Date               time.Time         `json:"date"`
	Comment            string            `json:"comment"`
	Status             ApplicationStatus `json:"status"`
	DocumentsVerified  bool              `json:"documents_verified"`
	BackgroundVerified bool              `json:"background_verified"`
	ExperienceVerified bool              `json:"experience_verified"`
	ReferencesVerified bool              `json:"references_verified"`
}

// Application is a driver-registration request (solicitação) under review.
type Application struct {
	Base
	FirstName  string               `json:"first_name"`
	LastName   string               `json:"last_name"`
	FullName   string               `json:"full_name"`
	Email      string               `json:"email"`
	Phone      string               `json:"phone"`
	CPF        string               `json:"cpf"`
	Condutax   string               `json:"condutax"`
	Address    Address              `json:"address"`
	Rating     int                  `json:"rating"`
	Status     ApplicationStatus    `json:"status"`
	Documents  ApplicationDocuments `json:"documents"`
	Experience Experience           `json:"experience"`
	References []Reference          `json:"references"`
	Reviews    []Review             `json:"reviews"`
	Notes      string               `json:"notes,omitempty"`
}

// Normalize fills nil sub-records so stored documents always carry the
// full shape.
func (a *Application) Normalize() {
	if a.Documents.Others == nil {
		a.Documents.Others = []OtherDocument{}
	}
	if a.Experience.Rentals == nil {
		a.Experience.Rentals = []RentalHistory{}
	}
	if a.References == nil {
		a.References = []Reference{}
	}
	if a.Reviews == nil {
		a.Reviews = []Review{}
	}
	if a.FullName == "" {
		a.FullName = a.FirstName
		if a.LastName != "" {
			a.FullName += " " + a.LastName
		}
	}
}
