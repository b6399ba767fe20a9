package main

import (
	"os"

	"github.com/SundayYogurt/herohq/config"
)

func main() {
	cfg := config.LoadConfig()
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
