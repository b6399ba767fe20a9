package main

import (
	"github.com/SundayYogurt/herohq/config"
	"github.com/SundayYogurt/herohq/internal/api"
)

func main() {
	//load configuration
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
