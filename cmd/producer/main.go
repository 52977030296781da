package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"mcastprobe/internal/codec"
	"mcastprobe/internal/logger"
	"mcastprobe/internal/mcast"
	"mcastprobe/internal/metrics"
	"mcastprobe/internal/producer"
)

func main() {
	group := flag.String("group", "239.0.0.1", "Multicast group address")
	port := flag.Int("port", 9999, "Port number to send to")
	interval := flag.Duration("interval", time.Second, "Interval between messages")
	ttl := flag.Int("ttl", 1, "Time-to-live for multicast packets")
	formatRaw := flag.String("format", "json", "Message format (json or binary)")
	iface := flag.String("iface", "", "Outgoing interface, by name or assigned IP (default: kernel choice)")
	compress := flag.Bool("compress", false, "LZ4-compress datagrams (json format only)")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus metrics on (empty: disabled)")
	logLevelRaw := flag.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")

	flag.Parse()

	level, err := logger.ParseLevel(*logLevelRaw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		flag.Usage()
		os.Exit(1)
	}
	log := logger.New(level)

	format, err := codec.ParseFormat(*formatRaw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		flag.Usage()
		os.Exit(1)
	}
	if *compress && format != codec.FormatJSON {
		fmt.Fprintln(os.Stderr, "Error: -compress only applies to the json format")
		flag.Usage()
		os.Exit(1)
	}
	if *interval <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -interval must be positive")
		flag.Usage()
		os.Exit(1)
	}

	c, err := codec.ForFormat(format)
	if err != nil {
		log.Fatal("%v", err)
	}

	sender, err := mcast.NewSender(*group, *port, *ttl, *iface)
	if err != nil {
		log.Fatal("transport setup: %v", err)
	}
	defer sender.Close()

	if *metricsAddr != "" {
		go metrics.Serve(*metricsAddr, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("stopping multicast producer...")
		cancel()
	}()

	runID := uuid.New().String()[:8]
	fmt.Printf("Sending multicast messages to %s (run %s)\n", sender.Dest(), runID)
	fmt.Printf("Format: %s\n", format)
	if *compress {
		fmt.Println("Compression: lz4")
	}
	fmt.Printf("Interval: %s\n", *interval)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println("--------------------------------------------------")

	p := producer.New(
		producer.Config{Format: format, Interval: *interval, Compress: *compress},
		c,
		sender,
		&producer.ConsoleReporter{W: os.Stdout, Format: format, Compress: *compress},
	)
	if err := p.Run(ctx); err != nil {
		log.Error("producer exited: %v", err)
		os.Exit(1)
	}
	log.Info("run %s sent %d messages", runID, p.Counter())
}
