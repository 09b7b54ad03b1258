package account

// LinkAccountRequest is the body for manually linking an account.
type LinkAccountRequest struct {
	Provider string `json:"provider" validate:"required,oneof=MOCK PLAID"`
	Name     string `json:"name" validate:"required,max=255"`
	Type     string `json:"type" validate:"required,oneof=CHECKING CREDIT DEBIT"`
}
