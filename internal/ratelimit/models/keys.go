package models

import "strings"

// KeyPrefix namespaces rate limit buckets by identifier kind.
type KeyPrefix string

const KeyPrefixIP KeyPrefix = "ip"

// RateLimitKey identifies one bucket, e.g. "ip:203.0.113.7:write".
type RateLimitKey struct {
	prefix     KeyPrefix
	identifier string
	class      EndpointClass
}

// NewRateLimitKey builds a bucket key with the identifier sanitized.
func NewRateLimitKey(prefix KeyPrefix, identifier string, class EndpointClass) RateLimitKey {
	return RateLimitKey{prefix: prefix, identifier: SanitizeKeySegment(identifier), class: class}
}

func (k RateLimitKey) String() string {
	return string(k.prefix) + ":" + k.identifier + ":" + string(k.class)
}

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so a client-supplied identifier containing ':' cannot alias another bucket.
//
// IPv6 addresses are affected too: "::1" becomes "__1".
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
