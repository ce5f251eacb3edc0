package entities

type DepositSessionResponse struct {
	ReservationID int64  `json:"reservation_id"`
	SessionID     string `json:"session_id"`
	URL           string `json:"url"`
	Amount        int    `json:"amount"`
	Currency      string `json:"currency"`
}
