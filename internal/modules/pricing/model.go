// README: Fare rate definitions.
package pricing

// Rate is a per-kilometre price in centavos. Each driver carries their own
// rate; the default rate is used for estimates made before a driver is known.
type Rate struct {
	Name          string
	PerKmCentavos int64
	Currency      string
}

// Fallbacks when the rates table is empty or unreachable.
const (
	defaultPerKmCentavos   = 500
	defaultMinimumCentavos = 500
	defaultCurrency        = "BRL"
)
