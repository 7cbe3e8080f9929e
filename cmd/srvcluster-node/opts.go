package main

import (
	"strings"
)

var opts struct {
	NodeName string `long:"node-name" env:"NODE_NAME" required:"true" description:"local node name in label@domain form"`
	DistPort uint16 `long:"dist-port" env:"ERL_DIST_PORT" description:"port the distribution listener is bound to"`

	Cluster struct {
		Service      string `long:"service" description:"service domain whose SRV records list the cluster members" env:"SERVICE" required:"true"`
		Topology     string `long:"topology" description:"topology name used in logs" env:"TOPOLOGY" default:"default"`
		PollInterval int    `long:"poll-interval" description:"membership polling interval (ms)" env:"POLL_INTERVAL" default:"5000"`
	} `group:"cluster" namespace:"cluster" env-namespace:"CLUSTER"`

	DNS struct {
		Servers string `long:"servers" description:"comma-separated list of nameservers (host:port), resolv.conf when empty" env:"SERVERS"`
		Timeout int    `long:"timeout" description:"single dns query timeout (ms)" env:"TIMEOUT" default:"2000"`
	} `group:"dns" namespace:"dns" env-namespace:"DNS"`

	Resolve string `long:"resolve" description:"resolve the address of the given node name and exit"`
	Verbose bool   `long:"verbose" description:"verbose mode" env:"VERBOSE"`
}

func parseAddrs(addrs string) []string {
	sl := strings.Split(addrs, ",")
	res := make([]string, 0, len(sl))

	for _, addr := range sl {
		trimmed := strings.TrimSpace(addr)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}

	return res
}
