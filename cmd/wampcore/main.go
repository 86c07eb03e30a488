package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"wampcore/pkg/app"
)

func main() {
	configDir := pflag.StringP("config", "c", "", "directory holding config.json (created with defaults when missing)")
	pflag.Parse()

	if err := app.RunAPI(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "wampcore: %v\n", err)
		os.Exit(1)
	}
}
