package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/stagefind/stagefind/internal/catalog"
	"github.com/stagefind/stagefind/internal/directory"
	"github.com/stagefind/stagefind/internal/fetch"
	"github.com/stagefind/stagefind/internal/logger"
	"github.com/stagefind/stagefind/internal/resolve"
	"github.com/stagefind/stagefind/internal/scrape"
	"github.com/stagefind/stagefind/internal/server"
)

var (
	addr         = flag.String("addr", ":8080", "Listen address")
	registryPath = flag.String("registry", "registry.yaml", "Path to registry YAML")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	matcher := resolve.NewMatcher(catalog.New())

	var dir resolve.Directory
	if remote, err := directory.NewFromEnv(); err == nil {
		dir = remote
	} else {
		logger.Info("running without play directory", logger.Fields{"reason": err.Error()})
	}

	sc := scrape.New(fetch.NewClient(), matcher, dir)
	srv := server.New(sc, *registryPath)

	e := echo.New()
	e.HideBanner = true
	if err := srv.Start(e, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
