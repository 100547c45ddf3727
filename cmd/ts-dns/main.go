package main

import (
	"os"

	"github.com/netguru/ts-dns/cmd/ts-dns/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
