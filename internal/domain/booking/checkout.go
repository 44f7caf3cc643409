package booking

// CheckoutInput はチェックアウト要求のタグ付きバリアントを表す
// 座席リストは座席指定バリアントにのみ存在し、
// 一般入場との取り違えを型レベルで防ぐ
type CheckoutInput interface {
	ShowRef() string
	Idempotency() string
	checkoutInput()
}

// GeneralAdmissionCheckout は座席を指定しない一般入場のチェックアウト要求
type GeneralAdmissionCheckout struct {
	ShowID         string
	TicketCount    int
	IdempotencyKey string
}

func (c GeneralAdmissionCheckout) ShowRef() string     { return c.ShowID }
func (c GeneralAdmissionCheckout) Idempotency() string { return c.IdempotencyKey }
func (c GeneralAdmissionCheckout) checkoutInput()      {}

// ReservedSeatsCheckout は特定座席を指定するチェックアウト要求
type ReservedSeatsCheckout struct {
	ShowID         string
	SeatLedgerIDs  []string
	IdempotencyKey string
}

func (c ReservedSeatsCheckout) ShowRef() string     { return c.ShowID }
func (c ReservedSeatsCheckout) Idempotency() string { return c.IdempotencyKey }
func (c ReservedSeatsCheckout) checkoutInput()      {}
