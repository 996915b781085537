package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/aloft-io/aloft/cmd/aloft-simd/app"
)

func main() {
	if err := app.NewSimdCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
