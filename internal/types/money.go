// README: Common money value object used across modules.
package types

import "fmt"

// Money is an amount in integer centavos. Fares are kept in centavos so that
// estimate and final-fare comparisons are exact.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func BRL(centavos int64) Money {
	return Money{Amount: centavos, Currency: "BRL"}
}

func (m Money) String() string {
	sign := ""
	cents := m.Amount
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", m.Currency, sign, cents/100, cents%100)
}
