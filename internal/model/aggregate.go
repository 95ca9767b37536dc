package model

// TypeCount is the number of services of one type.
type TypeCount struct {
	ServiceType string `json:"service_type"`
	Count       int    `json:"count"`
}

// TypeStats is the all-time usage of one service type.
type TypeStats struct {
	ServiceType string `json:"service_type"`
	Sessions    int    `json:"sessions"`
	Residents   int    `json:"residents"`
}

// ResidentActivity is a resident with the number of services they received
// in some period.
type ResidentActivity struct {
	ResidentID int64  `json:"resident_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Services   int    `json:"services"`
}

// FullName returns "first last".
func (a ResidentActivity) FullName() string {
	return Resident{FirstName: a.FirstName, LastName: a.LastName}.FullName()
}
