package nodename

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	name, err := Parse("node_a@my-service.service.consul")
	require.NoError(t, err)

	assert.Equal(t, "node_a", name.Label)
	assert.Equal(t, "my-service.service.consul", name.Domain)
	assert.Equal(t, "node_a@my-service.service.consul", name.String())
	assert.Equal(t, "node_a.my-service.service.consul", name.FQDN())
}

func TestParse_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"node-a@cluster.local",
		"node_1@my-service.service.consul",
		"a@b",
	} {
		name, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, name.String())
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"nodomain",
		"@domain",
		"label@",
		"bad.label@domain",
		"bad label@domain",
	} {
		_, err := Parse(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestIsEphemeral(t *testing.T) {
	assert.True(t, IsEphemeral("rpc-worker-1"))
	assert.True(t, IsEphemeral("rem-abc"))
	assert.False(t, IsEphemeral("node_a"))
	assert.False(t, IsEphemeral("RPC-worker-1"))
	assert.False(t, IsEphemeral("xrpc-worker-1"))
}

func TestMatchesSelf(t *testing.T) {
	target := "node_a.my-service.service.consul"

	assert.True(t, MatchesSelf("node_a.my-service.service.consul", target))
	assert.True(t, MatchesSelf("rpc-123-node_a.my-service.service.consul", target))
	assert.True(t, MatchesSelf("rem-x-node_a.my-service.service.consul", target))

	// Prefix must be a full "rpc-<anything>-" decoration.
	assert.False(t, MatchesSelf("rpc-node_a.my-service.service.consul", target))
	assert.False(t, MatchesSelf("xrpc-1-node_a.my-service.service.consul", target))
	assert.False(t, MatchesSelf("node_b.my-service.service.consul", target))
	assert.False(t, MatchesSelf("prefix-node_a.my-service.service.consul", target))
}

func TestFromSRVTarget(t *testing.T) {
	domain := "my-service.service.consul"

	name, ok := FromSRVTarget("node-a.my-service.service.consul", domain)
	require.True(t, ok)
	assert.Equal(t, Name{Label: "node-a", Domain: domain}, name)

	// The domain part is matched case-insensitively.
	name, ok = FromSRVTarget("node-a.My-Service.Service.Consul", domain)
	require.True(t, ok)
	assert.Equal(t, "node-a", name.Label)
}

func TestFromSRVTarget_Mismatch(t *testing.T) {
	domain := "my-service.service.consul"

	for _, target := range []string{
		"node-a.other-service.service.consul",
		"NODE-A.my-service.service.consul",
		"node.a.my-service.service.consul",
		"my-service.service.consul",
		".my-service.service.consul",
		"node-a",
		"",
	} {
		_, ok := FromSRVTarget(target, domain)
		assert.False(t, ok, "expected %q to be rejected", target)
	}
}
