package main

import (
	"os"

	"github.com/akhilapnuri/FinancialTrackerApp/cmd/ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
