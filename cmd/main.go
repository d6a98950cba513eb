package main

import (
	"os"

	"github.com/sitesage/sitesage/cmd/sitesage"
)

func main() {
	if err := sitesage.Execute(); err != nil {
		os.Exit(1)
	}
}
