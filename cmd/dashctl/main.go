package main

import (
	"fmt"
	"os"

	"github.com/boddenberg/smb-dashboard-bfa/internal/cli"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/observability"

	"github.com/shopspring/decimal"
)

var version = "dev"

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	logger := observability.NewLogger(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	c := cli.New(cli.Options{Output: os.Stdout, Logger: logger, Version: version})
	if err := c.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
