package dnsdisc

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const defaultTimeout = 2 * time.Second

// DNSConfig configures the live DNS resolver.
type DNSConfig struct {
	// Servers is a list of nameserver addresses in "host:port" form. When
	// empty, the servers from /etc/resolv.conf are used.
	Servers []string

	// Timeout bounds a single exchange with a nameserver. The resolver tries
	// the next server on failure, so the worst-case latency of one lookup is
	// Timeout multiplied by the number of servers.
	Timeout time.Duration
}

// DNSResolver performs live DNS queries against a set of nameservers. It is
// the production implementation of Resolver.
type DNSResolver struct {
	client  *dns.Client
	servers []string
}

// NewDNSResolver creates a resolver from the given config.
func NewDNSResolver(conf DNSConfig) (*DNSResolver, error) {
	servers := conf.Servers

	if len(servers) == 0 {
		cc, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("load resolv.conf: %w", err)
		}

		for _, s := range cc.Servers {
			servers = append(servers, net.JoinHostPort(s, cc.Port))
		}
	}

	if len(servers) == 0 {
		return nil, fmt.Errorf("no nameservers configured")
	}

	timeout := conf.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &DNSResolver{
		client:  &dns.Client{Timeout: timeout},
		servers: servers,
	}, nil
}

// LookupSRV implements Resolver.
func (r *DNSResolver) LookupSRV(name string) ([]SRVRecord, error) {
	msg, err := r.query(name, dns.TypeSRV)
	if err != nil {
		return nil, err
	}

	return srvAnswers(msg), nil
}

// LookupA implements Resolver.
func (r *DNSResolver) LookupA(host string) ([]net.IP, error) {
	msg, err := r.query(host, dns.TypeA)
	if err != nil {
		return nil, err
	}

	return aAnswers(msg), nil
}

func (r *DNSResolver) query(name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)

	var lastErr error

	for _, server := range r.servers {
		in, _, err := r.client.Exchange(msg, server)
		if err != nil {
			lastErr = fmt.Errorf("exchange with %s: %w", server, err)
			continue
		}

		if in.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("query %s %s: %s", dns.TypeToString[qtype], name, dns.RcodeToString[in.Rcode])
			continue
		}

		return in, nil
	}

	return nil, lastErr
}

func srvAnswers(msg *dns.Msg) []SRVRecord {
	records := make([]SRVRecord, 0, len(msg.Answer))

	for _, rr := range msg.Answer {
		srv, ok := rr.(*dns.SRV)
		if !ok {
			continue
		}

		records = append(records, SRVRecord{
			Priority: srv.Priority,
			Weight:   srv.Weight,
			Port:     srv.Port,
			Target:   strings.TrimSuffix(srv.Target, "."),
		})
	}

	return records
}

func aAnswers(msg *dns.Msg) []net.IP {
	addrs := make([]net.IP, 0, len(msg.Answer))

	for _, rr := range msg.Answer {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}

		if ip := a.A.To4(); ip != nil {
			addrs = append(addrs, ip)
		}
	}

	return addrs
}
