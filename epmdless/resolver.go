// Package epmdless answers the address queries of a distributed runtime
// without a port-mapper daemon. Instead of registering names with a local
// daemon, every node advertises its distribution port through a DNS SRV
// record, and peer addresses are resolved with plain A and SRV lookups.
package epmdless

import (
	"errors"
	"fmt"
	"math/rand"
	"net"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/srvcluster/dnsdisc"
	"github.com/maxpoletaev/srvcluster/nodename"
)

// ProtoVersion is the distribution protocol version reported with every
// resolved address.
const ProtoVersion = 5

var (
	// ErrPortUnset is returned when the distribution port was never
	// configured. There is no sane default: listening on an arbitrary port
	// would make the SRV advertisement wrong, so this is a hard failure.
	ErrPortUnset = errors.New("distribution port is not set (ERL_DIST_PORT)")

	// ErrNotFound is returned when a DNS lookup yields no usable answer for
	// the requested peer.
	ErrNotFound = errors.New("address not found")

	// ErrNoDaemon is returned by Names: with no daemon process there is no
	// registry of local names to enumerate.
	ErrNoDaemon = errors.New("name listing is not supported without a daemon")
)

// Addr is a resolved peer address.
type Addr struct {
	IP      net.IP
	Port    uint16
	Version uint16
}

// Config configures a Resolver. Self and DistPort normally come from the
// node's startup configuration; DNS defaults to a live resolver.
type Config struct {
	// Self is the local node's identity. Used to recognize lookups that
	// refer to the local node itself.
	Self nodename.Name

	// DistPort is the port the local runtime listens on for inbound peer
	// connections. Zero means unset, which is reported as ErrPortUnset the
	// first time the port is actually needed.
	DistPort uint16

	DNS    dnsdisc.Resolver
	Logger kitlog.Logger
}

// Resolver serves the address queries of the runtime's connection layer. It
// holds no mutable state and is safe for arbitrary concurrent use.
type Resolver struct {
	self     nodename.Name
	distPort uint16
	dns      dnsdisc.Resolver
	logger   kitlog.Logger
}

// New creates a Resolver from the given config.
func New(conf Config) *Resolver {
	logger := conf.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}

	return &Resolver{
		self:     conf.Self,
		distPort: conf.DistPort,
		dns:      conf.DNS,
		logger:   logger,
	}
}

// Register acknowledges a listen-port registration. There is no daemon to
// track registrations, so the call has no effect beyond returning a creation
// number in the range the runtime expects.
func (r *Resolver) Register(name string, port uint16) (creation uint8, err error) {
	creation = uint8(1 + rand.Intn(3))

	level.Debug(r.logger).Log(
		"msg", "registered listen port",
		"name", name,
		"port", port,
		"creation", creation,
	)

	return creation, nil
}

// ResolveAddr resolves the address of the peer "<label>.<domain>". A lookup
// that refers to the local node (including decorated rpc-/rem- identities)
// short-circuits to the loopback address and the local distribution port
// without touching DNS. For remote peers the address comes from an A lookup
// and the port from the first record of an SRV lookup on the same name.
func (r *Resolver) ResolveAddr(label, domain string) (Addr, error) {
	target := label + "." + domain

	if nodename.MatchesSelf(r.self.FQDN(), target) {
		port, err := r.DistPort()
		if err != nil {
			return Addr{}, err
		}

		return Addr{
			IP:      net.IPv4(127, 0, 0, 1).To4(),
			Port:    port,
			Version: ProtoVersion,
		}, nil
	}

	addrs, err := r.dns.LookupA(target)
	if err != nil {
		return Addr{}, fmt.Errorf("lookup A %s: %w", target, err)
	}

	if len(addrs) == 0 {
		return Addr{}, fmt.Errorf("lookup A %s: %w", target, ErrNotFound)
	}

	records, err := r.dns.LookupSRV(target)
	if err != nil {
		return Addr{}, fmt.Errorf("lookup SRV %s: %w", target, err)
	}

	// The first record wins: no priority/weight ordering is applied, and an
	// empty answer is an error rather than a fallback.
	if len(records) == 0 {
		return Addr{}, fmt.Errorf("lookup SRV %s: %w", target, ErrNotFound)
	}

	return Addr{
		IP:      addrs[0].To4(),
		Port:    records[0].Port,
		Version: ProtoVersion,
	}, nil
}

// ListenPort returns the port the given local name listens on. Ephemeral
// rpc-/rem- identities ride on the parent node's connection and report port
// zero instead of publishing a port of their own.
func (r *Resolver) ListenPort(name string) (uint16, error) {
	if nodename.IsEphemeral(name) {
		return 0, nil
	}

	return r.DistPort()
}

// DistPort returns the configured distribution port, or ErrPortUnset if it
// was never set.
func (r *Resolver) DistPort() (uint16, error) {
	if r.distPort == 0 {
		return 0, ErrPortUnset
	}

	return r.distPort, nil
}

// Names would enumerate the names registered on the given host. Without a
// daemon there is nothing to enumerate, so it always fails.
func (r *Resolver) Names(host string) ([]string, error) {
	return nil, ErrNoDaemon
}
