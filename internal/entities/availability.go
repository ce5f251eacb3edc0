package entities

type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	// BlockedUntil is the end of the window the requested ride would occupy.
	BlockedUntil string `json:"blocked_until"`
	// ConflictsWith is the pickup time of the booking in the way, if any.
	ConflictsWith string `json:"conflicts_with,omitempty"`
}
