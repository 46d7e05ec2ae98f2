// The main package for the mdx-to-sanity service executable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ptrkvsky/mdx-to-sanity/internal/config"
	"github.com/ptrkvsky/mdx-to-sanity/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (optional; environment variables take precedence)")
	flag.Parse()

	// A missing .env file is fine; configuration falls back to the
	// environment and to defaults.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	app, err := server.Build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		os.Exit(1)
	}
}
