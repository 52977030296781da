package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"mcastprobe/internal/codec"
	"mcastprobe/internal/listener"
	"mcastprobe/internal/logger"
	"mcastprobe/internal/mcast"
	"mcastprobe/internal/metrics"
	"mcastprobe/internal/stats"
)

func main() {
	group := flag.String("group", "239.0.0.1", "Multicast group address")
	port := flag.Int("port", 9999, "Port number to listen on")
	formatRaw := flag.String("format", "json", "Message format (json or binary)")
	iface := flag.String("iface", "", "Interface to join the group on, by name or assigned IP (default: kernel choice)")
	compress := flag.Bool("compress", false, "Expect LZ4-compressed datagrams (json format only)")
	window := flag.Int("window", stats.DefaultWindow, "Rolling latency window size (samples)")
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
	if *window <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -window must be positive")
		flag.Usage()
		os.Exit(1)
	}

	c, err := codec.ForFormat(format)
	if err != nil {
		log.Fatal("%v", err)
	}

	tr, err := mcast.NewListener(*group, *port, *iface)
	if err != nil {
		log.Fatal("transport setup: %v", err)
	}
	defer tr.Close()

	if *metricsAddr != "" {
		go metrics.Serve(*metricsAddr, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("stopping multicast listener...")
		cancel()
		// unblock the pending receive; the loop exits cleanly once the
		// context is cancelled
		_ = tr.Close()
	}()

	runID := uuid.New().String()[:8]
	fmt.Printf("Listening for multicast messages on %s (run %s)\n", tr.Group(), runID)
	fmt.Printf("Format: %s\n", format)
	if *compress {
		fmt.Println("Compression: lz4")
	}
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println("--------------------------------------------------")

	l := listener.New(
		listener.Config{Format: format, Compress: *compress, Window: *window},
		c,
		tr,
		&listener.ConsoleReporter{W: os.Stdout, Format: format},
	)
	if err := l.Run(ctx); err != nil {
		log.Error("listener exited: %v", err)
		os.Exit(1)
	}

	if s, ok := l.Tracker().Summary(); ok {
		fmt.Printf("Final stats: %s\n", s)
	} else {
		fmt.Println("No messages received")
	}
}
