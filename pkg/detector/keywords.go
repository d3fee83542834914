package detector

// DefaultKeywords returns the built-in column-name tokens used to
// recognize a NinjaTrader trade-history header row. Matching is
// case-insensitive and order-independent.
func DefaultKeywords() []string {
	return []string{
		"instrument",
		"market position",
		"market pos.",
		"quantity",
		"qty",
		"entry price",
		"exit price",
		"profit",
		"commission",
		"mae",
		"mfe",
		"entry time",
		"exit time",
		"trade",
		"entry name",
		"exit name",
		"cum. net profit",
		"run-up",
		"drawdown",
		"account",
		"contract",
		"entry",
		"exit",
		"p&l",
		"pnl",
	}
}
