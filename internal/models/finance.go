package models

// Finance statuses.
const (
	FinanceStatusPaid    = "paid"
	FinanceStatusPartial = "partial"
	FinanceStatusUnpaid  = "unpaid"
)

// FinanceRecord is the single fees row per student.
type FinanceRecord struct {
	TotalFees  float64 `db:"total_fees" json:"total_fees"`
	PaidAmount float64 `db:"paid_amount" json:"paid_amount"`
	Status     string  `db:"status" json:"status"`
	DueDate    string  `db:"due_date" json:"due_date"`
}

// Remaining is derived, never stored. No clamping: an overpayment renders as
// a negative remainder, matching the portal's historical behavior.
func (f FinanceRecord) Remaining() float64 {
	return f.TotalFees - f.PaidAmount
}
