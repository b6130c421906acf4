package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"ThreadChat/internal/stub"
)

func main() {
	var addr string
	var debug bool

	flag.StringVar(&addr, "addr", ":8080", "Listen address")
	flag.BoolVar(&debug, "debug", false, "Enable gin debug mode")
	flag.Parse()

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := stub.NewService(logger)

	logger.Info("stub chat service listening", "addr", addr, "base_url", fmt.Sprintf("http://localhost%s/api", addr))
	if err := svc.Router().Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
