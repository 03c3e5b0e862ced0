package checkout

// StateApproved is the transaction state of an approved payment.
const StateApproved = "4"

// Confirmation is the payment provider's notification.
type Confirmation struct {
	StatePol      string `json:"state_pol" form:"state_pol"`
	EmailBuyer    string `json:"email_buyer" form:"email_buyer"`
	ReferenceSale string `json:"reference_sale" form:"reference_sale"`
	Description   string `json:"description" form:"description"`
	Value         string `json:"value" form:"value"`
	Extra1        string `json:"extra1" form:"extra1"` // free-form specification text
}

// Approved reports whether the payment was approved.
func (c Confirmation) Approved() bool {
	return c.StatePol == StateApproved
}
