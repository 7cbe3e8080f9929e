package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jessevdk/go-flags"

	"github.com/maxpoletaev/srvcluster/dnsdisc"
	"github.com/maxpoletaev/srvcluster/epmdless"
	"github.com/maxpoletaev/srvcluster/nodename"
	"github.com/maxpoletaev/srvcluster/reconciler"
)

func setupLogger() kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))

	if !opts.Verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	return logger
}

func fatal(logger kitlog.Logger, msg string, err error) {
	level.Error(logger).Log("msg", msg, "err", err)
	os.Exit(1)
}

func resolveAndExit(logger kitlog.Logger, resolver *epmdless.Resolver) {
	target, err := nodename.Parse(opts.Resolve)
	if err != nil {
		fatal(logger, "invalid target name", err)
	}

	addr, err := resolver.ResolveAddr(target.Label, target.Domain)
	if err != nil {
		fatal(logger, "resolution failed", err)
	}

	fmt.Printf("%s %s:%d proto=%d\n", target, addr.IP, addr.Port, addr.Version)
	os.Exit(0)
}

func main() {
	p := flags.NewParser(&opts, flags.Default)

	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			fmt.Println("cli error:", err)
		}

		os.Exit(2)
	}

	logger := setupLogger()

	self, err := nodename.Parse(opts.NodeName)
	if err != nil {
		fatal(logger, "invalid node name", err)
	}

	dns, err := dnsdisc.NewDNSResolver(dnsdisc.DNSConfig{
		Servers: parseAddrs(opts.DNS.Servers),
		Timeout: time.Millisecond * time.Duration(opts.DNS.Timeout),
	})
	if err != nil {
		fatal(logger, "failed to set up dns resolver", err)
	}

	if opts.Resolve != "" {
		resolveAndExit(logger, epmdless.New(epmdless.Config{
			Self:     self,
			DistPort: opts.DistPort,
			DNS:      dns,
			Logger:   logger,
		}))
	}

	conf := reconciler.DefaultConfig()
	conf.Topology = opts.Cluster.Topology
	conf.Service = opts.Cluster.Service
	conf.Self = self
	conf.PollInterval = time.Millisecond * time.Duration(opts.Cluster.PollInterval)
	conf.Resolver = dns
	conf.Connector = newLogConnector(logger)
	conf.Logger = logger

	rec := reconciler.New(conf)
	rec.Start()

	level.Info(logger).Log(
		"msg", "reconciler started",
		"topology", conf.Topology,
		"service", conf.Service,
		"node", self,
	)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-interrupt
	level.Info(logger).Log("msg", "received interrupt signal, shutting down")

	rec.Stop()
}
