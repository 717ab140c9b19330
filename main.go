package main

import (
	"log"

	"github.com/dvaldes/warouter/core/cmd"
)

func main() {
	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
	})
	if err != nil {
		log.Fatalf("warouter: %v", err)
	}
}
