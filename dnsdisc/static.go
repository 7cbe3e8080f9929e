package dnsdisc

import (
	"net"
	"sync"
)

// StaticResolver is an in-memory Resolver with a fixed set of records. It is
// intended for tests and for bootstrapping without a live DNS infrastructure.
type StaticResolver struct {
	mut        sync.Mutex
	srv        map[string][]SRVRecord
	addrs      map[string][]net.IP
	err        error
	srvLookups int
	aLookups   int
}

// NewStaticResolver creates an empty static resolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		srv:   make(map[string][]SRVRecord),
		addrs: make(map[string][]net.IP),
	}
}

// SetSRV replaces the SRV answer for the given query name.
func (r *StaticResolver) SetSRV(name string, records ...SRVRecord) {
	r.mut.Lock()
	defer r.mut.Unlock()
	r.srv[name] = records
}

// SetA replaces the A answer for the given host.
func (r *StaticResolver) SetA(host string, addrs ...net.IP) {
	r.mut.Lock()
	defer r.mut.Unlock()
	r.addrs[host] = addrs
}

// SetErr makes all subsequent lookups fail with the given error until it is
// reset to nil.
func (r *StaticResolver) SetErr(err error) {
	r.mut.Lock()
	defer r.mut.Unlock()
	r.err = err
}

// Lookups returns the number of SRV and A lookups performed so far.
func (r *StaticResolver) Lookups() (srv, a int) {
	r.mut.Lock()
	defer r.mut.Unlock()

	return r.srvLookups, r.aLookups
}

// LookupSRV implements Resolver.
func (r *StaticResolver) LookupSRV(name string) ([]SRVRecord, error) {
	r.mut.Lock()
	defer r.mut.Unlock()

	r.srvLookups++

	if r.err != nil {
		return nil, r.err
	}

	return r.srv[name], nil
}

// LookupA implements Resolver.
func (r *StaticResolver) LookupA(host string) ([]net.IP, error) {
	r.mut.Lock()
	defer r.mut.Unlock()

	r.aLookups++

	if r.err != nil {
		return nil, r.err
	}

	return r.addrs[host], nil
}
