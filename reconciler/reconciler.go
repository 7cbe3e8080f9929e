// Package reconciler keeps the runtime's set of peer connections converged
// with the nodes advertised through DNS SRV records. It periodically resolves
// the service domain, translates SRV targets into node names, and instructs
// the runtime to connect to nodes that appeared and disconnect from nodes
// that are gone.
package reconciler

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/exp/slices"

	"github.com/maxpoletaev/srvcluster/dnsdisc"
	"github.com/maxpoletaev/srvcluster/internal/multierror"
	"github.com/maxpoletaev/srvcluster/internal/set"
	"github.com/maxpoletaev/srvcluster/nodename"
)

// Connector is the runtime's connection layer as seen by the reconciler.
// Connect receives the full candidate list every cycle, so implementations
// are expected to treat already-connected peers as cheap no-ops. Partial
// failures are reported as a *multierror.Error keyed by node name; any other
// error is interpreted as a failure of the whole batch.
type Connector interface {
	Connect(nodes []nodename.Name) error
	Disconnect(nodes []nodename.Name) error
	Connected() []nodename.Name
}

// Config configures a Reconciler. Service, Self, Resolver and Connector are
// required; the rest defaults via DefaultConfig.
type Config struct {
	// Topology names this reconciler instance in logs. Multiple topologies
	// (distinct service domains) run as fully independent reconcilers.
	Topology string

	// Service is the DNS name whose SRV records enumerate the cluster
	// members. SRV targets must be of the form "<label>.<service>". The
	// value is matched literally, so a service string is never treated as
	// a pattern.
	Service string

	// Self is the local node. It is always excluded from the candidate set:
	// a node never connects to or disconnects from itself.
	Self nodename.Name

	// PollInterval is the delay between the end of one poll cycle and the
	// start of the next. There is no backoff: churn is dampened by choosing
	// an interval large enough relative to the DNS TTL.
	PollInterval time.Duration

	Resolver  dnsdisc.Resolver
	Connector Connector
	Logger    kitlog.Logger
	Clock     clock.Clock
}

// DefaultConfig returns a config with the documented defaults filled in.
func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		Logger:       kitlog.NewNopLogger(),
		Clock:        clock.New(),
	}
}

// Reconciler is a single-threaded polling loop owning the last reconciled
// member set. Polls never overlap: the next timer is armed only after the
// previous cycle, including all connect/disconnect calls, has completed.
type Reconciler struct {
	topology string
	service  string
	self     nodename.Name
	interval time.Duration
	dns      dnsdisc.Resolver
	conn     Connector
	logger   kitlog.Logger
	clock    clock.Clock

	mut   sync.RWMutex
	known set.Set[nodename.Name]

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Reconciler. The known member set starts out seeded from the
// connector's current connections, so a restart does not reconnect peers that
// are already there.
func New(conf Config) *Reconciler {
	if conf.Logger == nil {
		conf.Logger = kitlog.NewNopLogger()
	}

	if conf.Clock == nil {
		conf.Clock = clock.New()
	}

	if conf.PollInterval == 0 {
		conf.PollInterval = DefaultConfig().PollInterval
	}

	known := set.FromSlice(conf.Connector.Connected())
	known.Remove(conf.Self)

	return &Reconciler{
		topology: conf.Topology,
		service:  conf.Service,
		self:     conf.Self,
		interval: conf.PollInterval,
		dns:      conf.Resolver,
		conn:     conf.Connector,
		logger:   conf.Logger,
		clock:    conf.Clock,
		known:    known,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop in a background goroutine.
func (r *Reconciler) Start() {
	go r.run()
}

// Stop terminates the polling loop and waits for it to exit. A cycle already
// in progress runs to completion.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})

	<-r.done
}

// Nodes returns the members known after the last completed poll cycle, in
// stable order.
func (r *Reconciler) Nodes() []nodename.Name {
	r.mut.RLock()
	defer r.mut.RUnlock()

	return sortedValues(r.known)
}

func (r *Reconciler) run() {
	defer close(r.done)

	for {
		timer := r.clock.Timer(r.interval)

		select {
		case <-timer.C:
			r.poll()
		case <-r.stop:
			timer.Stop()
			return
		}
	}
}

// poll runs a single reconciliation cycle: resolve, diff, disconnect the
// removed nodes, connect the candidates, and persist the result as the new
// known set. Failures never terminate the loop, they only slow convergence
// down until the next cycle.
func (r *Reconciler) poll() {
	candidates := r.discover()
	candidates.Remove(r.self)

	r.mut.RLock()
	known := r.known.Copy()
	r.mut.RUnlock()

	removed := known.Diff(candidates)

	if removed.Len() > 0 {
		if err := r.conn.Disconnect(sortedValues(removed)); err != nil {
			// A node is not gone until the runtime actually managed to
			// disconnect it, so failed nodes stay in the working set.
			failed := failedNodes(err, removed)
			for _, node := range failed {
				candidates.Add(node)
			}

			level.Warn(r.logger).Log(
				"msg", "failed to disconnect nodes",
				"topology", r.topology,
				"nodes", joinNames(failed),
				"err", err,
			)
		}
	}

	if candidates.Len() > 0 {
		if err := r.conn.Connect(sortedValues(candidates)); err != nil {
			// Nodes that could not be connected are not recorded as joined;
			// they will be attempted again on the next cycle.
			failed := failedNodes(err, candidates)
			for _, node := range failed {
				candidates.Remove(node)
			}

			level.Warn(r.logger).Log(
				"msg", "failed to connect nodes",
				"topology", r.topology,
				"nodes", joinNames(failed),
				"err", err,
			)
		}
	}

	r.mut.Lock()
	changed := !r.known.Equals(candidates)
	r.known = candidates
	r.mut.Unlock()

	if changed {
		level.Info(r.logger).Log(
			"msg", "cluster membership changed",
			"topology", r.topology,
			"nodes", joinNames(sortedValues(candidates)),
		)
	}
}

// discover resolves the service domain and translates the SRV answer into a
// candidate member set. Lookup failures and empty answers both produce an
// empty set: the resolver strategy carries no distinction the reconciler
// could act on, and the next cycle retries anyway.
func (r *Reconciler) discover() set.Set[nodename.Name] {
	candidates := make(set.Set[nodename.Name])

	records, err := r.dns.LookupSRV(r.service)
	if err != nil {
		level.Warn(r.logger).Log(
			"msg", "srv lookup failed",
			"topology", r.topology,
			"service", r.service,
			"err", err,
		)

		return candidates
	}

	if len(records) == 0 {
		level.Debug(r.logger).Log(
			"msg", "srv answer is empty",
			"topology", r.topology,
			"service", r.service,
		)

		return candidates
	}

	for _, rec := range records {
		name, ok := nodename.FromSRVTarget(rec.Target, r.service)
		if !ok {
			level.Debug(r.logger).Log(
				"msg", "srv target does not match the naming convention",
				"topology", r.topology,
				"target", rec.Target,
			)

			continue
		}

		candidates.Add(name)
	}

	return candidates
}

// failedNodes extracts the failed subset from a connector error. When the
// error carries no per-node breakdown, the whole attempted batch is treated
// as failed.
func failedNodes(err error, attempted set.Set[nodename.Name]) []nodename.Name {
	var merr *multierror.Error[nodename.Name]
	if errors.As(err, &merr) {
		return merr.Keys()
	}

	return attempted.Values()
}

func sortedValues(s set.Set[nodename.Name]) []nodename.Name {
	values := s.Values()
	slices.SortFunc(values, func(a, b nodename.Name) int {
		return strings.Compare(a.String(), b.String())
	})

	return values
}

func joinNames(nodes []nodename.Name) string {
	names := make([]string, len(nodes))
	for i, node := range nodes {
		names[i] = node.String()
	}

	return strings.Join(names, ",")
}
