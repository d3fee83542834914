// Trade Compiler - NinjaTrader Export Merge Tool
//
// Trade Compiler merges per-day NinjaTrader trade export files into one
// chronologically ordered, deduplicated file per account.
package main

import (
	"os"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
