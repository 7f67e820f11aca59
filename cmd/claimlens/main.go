package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/insurelab/claimlens/internal/cli"
)

func main() {
	// .env is optional; deployments usually set the environment directly
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
