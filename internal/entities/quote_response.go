package entities

import "movextransfer/internal/pricing"

type QuoteResponse struct {
	Type string `json:"type"`
	pricing.Breakdown
	Currency string `json:"currency"`
}
