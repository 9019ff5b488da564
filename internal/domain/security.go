package domain

import "time"

// Security identifies one tradable instrument in the research universe.
// Corresponds to securities table in PostgreSQL.
type Security struct {
	Symbol   string    // ticker symbol, e.g. "AAPL"
	Name     string    // company name from the constituents list
	Exchange string    // listing exchange, e.g. "XNAS"
	Currency string    // listing currency, ISO 4217
	Index    string    // index the symbol was sourced from, e.g. "DJIA"
	AddedAt  time.Time // when the security entered the universe
}
