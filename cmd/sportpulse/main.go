// Command sportpulse is a terminal client for the SportPulse API.
package main

import (
	"fmt"
	"os"

	"sportpulse/pkg/client/api"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", api.Message(err))
		os.Exit(1)
	}
}
