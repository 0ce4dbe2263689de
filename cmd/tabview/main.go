package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kyaoi/tabview/internal/app"
	"github.com/kyaoi/tabview/internal/config"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return
	case errors.Is(err, config.ErrUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	case err != nil:
		log.Fatal(err)
	}

	if err := app.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
