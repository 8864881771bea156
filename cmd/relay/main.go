// Command relay runs the NDJSON broadcast relay game clients join with
// -relay.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/milk9111/brawler/config"
	"github.com/milk9111/brawler/logging"
	"github.com/milk9111/brawler/netplay"
)

func main() {
	addr := flag.String("addr", netplay.DefaultAddr, "listen address")
	level := flag.String("log-level", "info", "log level")
	format := flag.String("log-format", "console", "log format: json or console")
	flag.Parse()

	log, err := logging.New(config.Logging{Level: *level, Format: *format})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := netplay.ListenRelay(ctx, *addr, log)
	if err != nil {
		log.Fatal("listen failed", zap.String("addr", *addr), zap.Error(err))
	}
	<-ctx.Done()
	_ = r.Close()
}
