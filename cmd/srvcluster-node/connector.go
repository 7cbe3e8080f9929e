package main

import (
	"sync"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/srvcluster/internal/set"
	"github.com/maxpoletaev/srvcluster/nodename"
)

// logConnector is a stand-in for the runtime's connection layer: it tracks
// which peers the reconciler considers connected and logs every transition.
// Useful for verifying a DNS setup before wiring the real runtime in.
type logConnector struct {
	mut       sync.Mutex
	logger    kitlog.Logger
	connected set.Set[nodename.Name]
}

func newLogConnector(logger kitlog.Logger) *logConnector {
	return &logConnector{
		logger:    logger,
		connected: set.New[nodename.Name](),
	}
}

func (c *logConnector) Connect(nodes []nodename.Name) error {
	c.mut.Lock()
	defer c.mut.Unlock()

	for _, node := range nodes {
		if c.connected.Has(node) {
			continue
		}

		c.connected.Add(node)

		level.Info(c.logger).Log("msg", "would connect", "node", node)
	}

	return nil
}

func (c *logConnector) Disconnect(nodes []nodename.Name) error {
	c.mut.Lock()
	defer c.mut.Unlock()

	for _, node := range nodes {
		if !c.connected.Has(node) {
			continue
		}

		c.connected.Remove(node)

		level.Info(c.logger).Log("msg", "would disconnect", "node", node)
	}

	return nil
}

func (c *logConnector) Connected() []nodename.Name {
	c.mut.Lock()
	defer c.mut.Unlock()

	return c.connected.Values()
}
