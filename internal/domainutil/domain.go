package domainutil

import (
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"
)

// Normalize canonicalizes a domain name: lowercase, trimmed, trailing dot
// and port stripped. IP addresses, empty strings and names with characters
// outside a-z 0-9 . - are rejected.
func Normalize(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("domain must not be empty")
	}

	host = strings.ToLower(host)
	host = strings.TrimSuffix(host, ".")

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return "", fmt.Errorf("domain must not be empty after normalization")
	}

	if net.ParseIP(host) != nil {
		return "", fmt.Errorf("IP address is not allowed as domain: %s", host)
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		inner := host[1 : len(host)-1]
		if net.ParseIP(inner) != nil {
			return "", fmt.Errorf("IP address is not allowed as domain: %s", host)
		}
	}

	for i := 0; i < len(host); {
		r, size := utf8.DecodeRuneInString(host[i:])
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-') {
			return "", fmt.Errorf("domain contains invalid character: %c in %s", r, host)
		}
		i += size
	}

	if strings.HasPrefix(host, ".") || strings.HasPrefix(host, "-") {
		return "", fmt.Errorf("domain must not start with '.' or '-': %s", host)
	}
	if !strings.Contains(host, ".") {
		return "", fmt.Errorf("domain must contain at least one dot: %s", host)
	}

	return host, nil
}

// NormalizeRecordName canonicalizes a DNS record name. Same rules as
// Normalize, except a leading wildcard label is allowed.
func NormalizeRecordName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	wildcard := strings.HasPrefix(name, "*.")
	if wildcard {
		name = name[2:]
	}

	normalized, err := Normalize(name)
	if err != nil {
		return "", err
	}
	if wildcard {
		normalized = "*." + normalized
	}
	return normalized, nil
}

// EffectiveApex returns the registrable domain (eTLD+1) for a host per the
// public suffix list:
//
//	www.example.gov    -> example.gov
//	a.b.example.co.uk  -> example.co.uk
//	example.gov        -> example.gov
//
// All apex computation goes through here; nothing else may split labels by
// hand.
func EffectiveApex(domain string) (string, error) {
	normalized, err := Normalize(domain)
	if err != nil {
		return "", fmt.Errorf("normalize failed for %s: %w", domain, err)
	}

	apex, err := publicsuffix.EffectiveTLDPlusOne(normalized)
	if err != nil {
		return "", fmt.Errorf("public suffix lookup failed for %s: %w", domain, err)
	}
	return apex, nil
}

// InZone reports whether a record name belongs to the given zone: the zone
// apex itself or any name under it.
func InZone(recordName, zoneName string) bool {
	name, err := NormalizeRecordName(recordName)
	if err != nil {
		return false
	}
	zone, err := Normalize(zoneName)
	if err != nil {
		return false
	}
	return name == zone || strings.HasSuffix(name, "."+zone)
}
