// Command deadreckon drives the simulated robot along a fixed route by
// dead reckoning, logging the ultrasonic readings before every move. It
// speaks the same protocol over TCP to the simulator or over a serial line
// to a real robot.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pthm-cable/simmer/config"
	"github.com/pthm-cable/simmer/protocol"
)

func main() {
	configPath := flag.String("config", "", "Simulator config YAML for host, ports and framing (empty = use defaults)")
	serialPort := flag.String("serial", "", "Serial device to use instead of TCP")
	baud := flag.Int("baud", 9600, "Serial baud rate")
	sensors := flag.String("sensors", "u0,u1", "Comma-separated sensors to read before each move")
	retry := flag.Duration("retry", 100*time.Millisecond, "Wait before re-sending a drive command that was refused")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	start, end := cfg.Framing()

	var conn transport
	if *serialPort != "" {
		conn, err = openSerial(*serialPort, *baud, end, cfg.Network.Binary, cfg.Derived.Timeout)
		if err != nil {
			logger.Error("failed to open serial port", "error", err)
			os.Exit(1)
		}
	} else {
		conn = &tcpTransport{
			host:    cfg.Network.Host,
			rx:      cfg.Network.PortRx,
			tx:      cfg.Network.PortTx,
			timeout: cfg.Derived.Timeout,
		}
	}
	defer conn.Close()

	var ids []string
	for _, id := range strings.Split(*sensors, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &client{
		conn:    conn,
		framing: protocol.Framing{Start: start, End: end},
		binary:  cfg.Network.Binary,
		sensors: ids,
		retry:   *retry,
		logger:  logger,
	}
	if err := c.run(ctx, route); err != nil {
		logger.Error("route aborted", "error", err)
		os.Exit(1)
	}
	logger.Info("route complete", "steps", len(route))
}
