package billing

// IssueBillNumberRequest represents a request to mint a bill number
type IssueBillNumberRequest struct {
	Category string `json:"category" binding:"required,oneof=sale consultation therapy prakriti"`
}

// BillNumberResponse carries a minted or previewed bill number
type BillNumberResponse struct {
	BillNumber string `json:"bill_number"`
	Category   string `json:"category"`
	YearStart  int    `json:"year_start"`
}
