package models

// JourneyPlanRequest is the inbound shape shared by the HTTP façade and the
// CLI. Departure time and date accept the literals "now" and "today".
type JourneyPlanRequest struct {
	Origin        string   `json:"origin" validate:"required,min=1,max=200"`
	Destination   string   `json:"destination" validate:"required,min=1,max=200"`
	DepartureTime string   `json:"departure_time,omitempty"`
	Date          string   `json:"date,omitempty"`
	Realtime      bool     `json:"realtime,omitempty"`
	Modes         []string `json:"modes,omitempty"`
}
