package models

import "time"

const NotificationNewApplication = "new_application"
const NotificationNewDriver = "new_driver"

type Notification struct {
	Base
	Type          string `json:"type"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	Status        string `json:"status"`
	Rating        int    `json:"rating"`
	Read          bool   `json:"read"`
	ApplicationID string `json:"application_id,omitempty"`
	DriverID      string `json:"driver_id,omitempty"`
}

// StatusChange is the audit entry written for every accepted transition.
type StatusChange struct {
	Base
	Collection string    `json:"collection"`
	DocumentID string    `json:"document_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Actor      string    `json:"actor"`
	At         time.Time `json:"at"`
}
