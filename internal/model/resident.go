package model

import "strings"

// Resident is a person tracked by the shelter.
type Resident struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	EntryDate string `json:"entry_date"`
}

// FullName returns "first last".
func (r Resident) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Service is a support action logged against a resident on a given date.
type Service struct {
	ID          int64  `json:"id"`
	ResidentID  int64  `json:"resident_id"`
	ServiceType string `json:"service_type"`
	ServiceDate string `json:"service_date"`
}

// ServiceEntry is a service joined with the display name of its resident.
type ServiceEntry struct {
	Service
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ResidentName returns the joined resident's "first last".
func (e ServiceEntry) ResidentName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
