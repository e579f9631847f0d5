package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"freightflow/internal/config"
	"freightflow/internal/mylogger"
	orderservice "freightflow/internal/order-service"
)

func main() {
	orderCmd := flag.NewFlagSet("order-service", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: app order-service")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "order-service":
		_ = orderCmd.Parse(os.Args[2:])
		run()
	default:
		fmt.Fprintf(os.Stderr, "unknown service: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func run() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if err := orderservice.Execute(context.Background(), mylog, cfg); err != nil {
		mylog.Action("service_exit").Error("order-service stopped with error", err)
		os.Exit(1)
	}
}
