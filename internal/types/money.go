package types

import "fmt"

// Money is an integer amount in the currency's smallest unit (sen for MYR).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// MYR builds a ringgit amount from sen.
func MYR(sen int64) Money {
	return Money{Amount: sen, Currency: "MYR"}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %d.%02d", m.Currency, m.Amount/100, m.Amount%100)
}
