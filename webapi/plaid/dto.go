package plaid

// ExchangeTokenRequest is the body for the public token exchange.
type ExchangeTokenRequest struct {
	PublicToken string `json:"publicToken" validate:"required"`
}
