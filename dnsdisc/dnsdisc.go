// Package dnsdisc defines the DNS resolution strategy used for cluster
// discovery. Peers advertise their dynamically assigned distribution port
// through SRV records, so discovery needs both SRV lookups (who is out there,
// on which port) and A lookups (what address do they have).
package dnsdisc

import "net"

// SRVRecord is a single answer of a DNS SRV query. Target is the host name
// the record points at, without the trailing dot.
type SRVRecord struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
}

// Resolver issues DNS queries on behalf of the discovery components. The
// default implementation performs live queries, while tests substitute a
// deterministic StaticResolver.
type Resolver interface {
	// LookupSRV returns the SRV records for the given query name. An empty
	// answer is returned as an empty slice, not an error.
	LookupSRV(name string) ([]SRVRecord, error)

	// LookupA returns the IPv4 addresses of the given host. Records of other
	// address families are not returned.
	LookupA(host string) ([]net.IP, error)
}

// ServiceQuery builds the conventional "_<service>._tcp.<domain>" SRV query
// name for a service.
func ServiceQuery(service, domain string) string {
	return "_" + service + "._tcp." + domain
}
