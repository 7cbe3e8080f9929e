package nodename

import (
	"fmt"
	"strings"
)

// Ephemeral name prefixes used by short-lived helper processes that piggyback
// on the parent node's distribution connection instead of publishing their own
// listen port.
const (
	PrefixRPC = "rpc-"
	PrefixRem = "rem-"
)

// Name is the identity of a cluster member. The external form is
// "<label>@<domain>", while DNS queries use "<label>.<domain>". The label and
// domain are stored separately so that the translation between the two forms
// is lossless.
type Name struct {
	Label  string
	Domain string
}

// New creates a Name from a label and a domain. The label must consist of
// alphanumeric characters, dashes and underscores.
func New(label, domain string) (Name, error) {
	if !ValidLabel(label) {
		return Name{}, fmt.Errorf("invalid node label: %q", label)
	}

	if domain == "" {
		return Name{}, fmt.Errorf("empty node domain")
	}

	return Name{Label: label, Domain: domain}, nil
}

// Parse parses the external "<label>@<domain>" form of a node name.
func Parse(s string) (Name, error) {
	label, domain, ok := strings.Cut(s, "@")
	if !ok {
		return Name{}, fmt.Errorf("node name %q has no @ separator", s)
	}

	return New(label, domain)
}

// String returns the external "<label>@<domain>" form.
func (n Name) String() string {
	return n.Label + "@" + n.Domain
}

// FQDN returns the DNS "<label>.<domain>" form.
func (n Name) FQDN() string {
	return n.Label + "." + n.Domain
}

// IsZero reports whether the name is empty.
func (n Name) IsZero() bool {
	return n.Label == "" && n.Domain == ""
}

// ValidLabel reports whether s is a well-formed node label. Both cases are
// accepted here, although DNS-discovered labels are restricted to lower case
// (see FromSRVTarget).
func ValidLabel(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isLabelByte(s[i]) && !('A' <= s[i] && s[i] <= 'Z') {
			return false
		}
	}

	return true
}

func isLabelByte(c byte) bool {
	return ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') || c == '-' || c == '_'
}

// IsEphemeral reports whether the given node name belongs to a short-lived
// helper process (rpc-/rem- prefixed, case-sensitive). Ephemeral names share
// the parent node's listen socket and never publish a port of their own.
func IsEphemeral(name string) bool {
	return strings.HasPrefix(name, PrefixRPC) || strings.HasPrefix(name, PrefixRem)
}

// MatchesSelf reports whether the host name self refers to the same node as
// target, where both are in the DNS "<label>.<domain>" form. A decorated
// ephemeral identity such as "rpc-<anything>-<target>" still refers to the
// local node. The comparison is deliberately an explicit suffix check rather
// than a compiled regex: domain strings come from configuration and may
// contain characters that are meaningful in a pattern.
func MatchesSelf(self, target string) bool {
	if self == target {
		return true
	}

	if !strings.HasSuffix(self, target) {
		return false
	}

	// The remaining prefix must look like "rpc-<anything>-" or
	// "rem-<anything>-", where <anything> may be empty.
	prefix := self[:len(self)-len(target)]
	if len(prefix) < len(PrefixRPC)+1 {
		return false
	}

	if !strings.HasPrefix(prefix, PrefixRPC) && !strings.HasPrefix(prefix, PrefixRem) {
		return false
	}

	return strings.HasSuffix(prefix, "-")
}

// FromSRVTarget extracts a node name from a DNS SRV target host. The target
// must be exactly "<label>.<domain>" where the label consists of lower-case
// alphanumerics, dashes and underscores. The domain is compared literally
// (case-insensitively), not as a pattern, so a domain value containing
// metacharacters is matched verbatim.
func FromSRVTarget(target, domain string) (Name, bool) {
	if len(target) <= len(domain)+1 {
		return Name{}, false
	}

	cut := len(target) - len(domain)
	if target[cut-1] != '.' || !strings.EqualFold(target[cut:], domain) {
		return Name{}, false
	}

	label := target[:cut-1]
	for i := 0; i < len(label); i++ {
		if !isLabelByte(label[i]) {
			return Name{}, false
		}
	}

	return Name{Label: label, Domain: domain}, true
}
