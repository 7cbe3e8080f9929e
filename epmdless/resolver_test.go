package epmdless_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxpoletaev/srvcluster/dnsdisc"
	"github.com/maxpoletaev/srvcluster/epmdless"
	"github.com/maxpoletaev/srvcluster/nodename"
)

const testDomain = "my-service.service.consul"

func newResolver(t *testing.T, port uint16) (*epmdless.Resolver, *dnsdisc.StaticResolver) {
	t.Helper()

	self, err := nodename.Parse("node_a@" + testDomain)
	require.NoError(t, err)

	dns := dnsdisc.NewStaticResolver()

	return epmdless.New(epmdless.Config{
		Self:     self,
		DistPort: port,
		DNS:      dns,
	}), dns
}

func TestResolveAddr_Self(t *testing.T) {
	r, dns := newResolver(t, 9100)

	addr, err := r.ResolveAddr("node_a", testDomain)
	require.NoError(t, err)

	assert.Equal(t, net.IP{127, 0, 0, 1}, addr.IP)
	assert.Equal(t, uint16(9100), addr.Port)
	assert.Equal(t, uint16(epmdless.ProtoVersion), addr.Version)

	// Local resolution must not hit DNS.
	srv, a := dns.Lookups()
	assert.Equal(t, 0, srv)
	assert.Equal(t, 0, a)
}

func TestResolveAddr_EphemeralSelf(t *testing.T) {
	self, err := nodename.Parse("rpc-123-node_a@" + testDomain)
	require.NoError(t, err)

	dns := dnsdisc.NewStaticResolver()
	r := epmdless.New(epmdless.Config{Self: self, DistPort: 9100, DNS: dns})

	// A decorated helper identity still resolves the undecorated node name
	// to the local distribution port.
	addr, err := r.ResolveAddr("node_a", testDomain)
	require.NoError(t, err)

	assert.Equal(t, net.IP{127, 0, 0, 1}, addr.IP)
	assert.Equal(t, uint16(9100), addr.Port)
}

func TestResolveAddr_SelfPortUnset(t *testing.T) {
	r, _ := newResolver(t, 0)

	_, err := r.ResolveAddr("node_a", testDomain)
	assert.ErrorIs(t, err, epmdless.ErrPortUnset)
}

func TestResolveAddr_Remote(t *testing.T) {
	r, dns := newResolver(t, 9100)

	dns.SetA("node_b."+testDomain, net.IP{10, 0, 0, 7})
	dns.SetSRV("node_b."+testDomain,
		dnsdisc.SRVRecord{Priority: 0, Weight: 1, Port: 8001, Target: "node_b." + testDomain},
		dnsdisc.SRVRecord{Priority: 0, Weight: 1, Port: 8017, Target: "node_b." + testDomain},
	)

	addr, err := r.ResolveAddr("node_b", testDomain)
	require.NoError(t, err)

	// The first SRV record wins, regardless of additional answers.
	assert.Equal(t, net.IP{10, 0, 0, 7}, addr.IP)
	assert.Equal(t, uint16(8001), addr.Port)
	assert.Equal(t, uint16(epmdless.ProtoVersion), addr.Version)
}

func TestResolveAddr_NoARecord(t *testing.T) {
	r, dns := newResolver(t, 9100)

	dns.SetSRV("node_b."+testDomain,
		dnsdisc.SRVRecord{Port: 8001, Target: "node_b." + testDomain})

	_, err := r.ResolveAddr("node_b", testDomain)
	assert.ErrorIs(t, err, epmdless.ErrNotFound)
}

func TestResolveAddr_NoSRVRecord(t *testing.T) {
	r, dns := newResolver(t, 9100)

	dns.SetA("node_b."+testDomain, net.IP{10, 0, 0, 7})

	_, err := r.ResolveAddr("node_b", testDomain)
	assert.ErrorIs(t, err, epmdless.ErrNotFound)
}

func TestListenPort(t *testing.T) {
	r, _ := newResolver(t, 9100)

	port, err := r.ListenPort("node_a")
	require.NoError(t, err)
	assert.Equal(t, uint16(9100), port)

	port, err = r.ListenPort("rpc-worker-1")
	require.NoError(t, err)
	assert.Equal(t, uint16(0), port)

	port, err = r.ListenPort("rem-abc")
	require.NoError(t, err)
	assert.Equal(t, uint16(0), port)
}

func TestListenPort_Unset(t *testing.T) {
	r, _ := newResolver(t, 0)

	_, err := r.ListenPort("node_a")
	assert.ErrorIs(t, err, epmdless.ErrPortUnset)

	// Ephemeral names never need the port, so they do not fail.
	port, err := r.ListenPort("rpc-worker-1")
	require.NoError(t, err)
	assert.Equal(t, uint16(0), port)
}

func TestRegister(t *testing.T) {
	r, _ := newResolver(t, 9100)

	for i := 0; i < 50; i++ {
		creation, err := r.Register("node_a", 9100)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, creation, uint8(1))
		assert.LessOrEqual(t, creation, uint8(3))
	}
}

func TestNames(t *testing.T) {
	r, _ := newResolver(t, 9100)

	_, err := r.Names("localhost")
	assert.ErrorIs(t, err, epmdless.ErrNoDaemon)
}
