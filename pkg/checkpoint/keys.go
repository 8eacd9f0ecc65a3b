package checkpoint

// DeriveKey maps a (user identifier, client address) pair to the key
// under which bucket state is tracked. Keying on the pair keeps one
// stolen identifier from being throttled globally by a single source,
// and keeps one address (e.g. a NAT) from exhausting every
// identifier's bucket.
//
// The address goes first: it is transport-derived (an IP or host:port)
// and never contains '|', so the first separator is unambiguous even
// when the untrusted identifier contains one. Two requests share a
// bucket exactly when they share both values.
func DeriveKey(userIdentifier, clientAddress string) string {
	return clientAddress + "|" + userIdentifier
}
