package encoding

import (
	"net"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// reversedIPv4Labels splits a dotted-quad into its four octets, reversed.
func reversedIPv4Labels(ip string) ([]string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, ErrMalformedIPv4
	}
	v4 := parsed.To4()
	if v4 == nil {
		return nil, ErrMalformedIPv4
	}
	return []string{
		strconv.Itoa(int(v4[3])),
		strconv.Itoa(int(v4[2])),
		strconv.Itoa(int(v4[1])),
		strconv.Itoa(int(v4[0])),
	}, nil
}

// ReverseIPv4 encodes "a.b.c.d" as "d.c.b.a", with no zone suffix.
func ReverseIPv4(ip string) (string, error) {
	labels, err := reversedIPv4Labels(ip)
	if err != nil {
		return "", err
	}
	return strings.Join(labels, "."), nil
}

// BuildQueryName builds the reversed-IPv4 query name under zone, e.g.
// BuildQueryName("1.2.3.4", "bl.i1.is.") -> "4.3.2.1.bl.i1.is.".
func BuildQueryName(ip, zone string) (string, error) {
	reversed, err := ReverseIPv4(ip)
	if err != nil {
		return "", err
	}
	return dns.Fqdn(reversed + "." + strings.TrimSuffix(zone, ".")), nil
}

// ParseQueryName is the strict inverse of BuildQueryName: given a query
// name and the zone it was built under, recover the original IPv4 address.
func ParseQueryName(name, zone string) (string, error) {
	name = strings.TrimSuffix(dns.Fqdn(name), ".")
	zoneTrimmed := strings.TrimSuffix(dns.Fqdn(zone), ".")
	suffix := "." + zoneTrimmed
	if !strings.HasSuffix(name, suffix) {
		return "", ErrMalformedIPv4
	}
	labelPart := strings.TrimSuffix(name, suffix)
	octets := strings.Split(labelPart, ".")
	if len(octets) != 4 {
		return "", ErrMalformedIPv4
	}
	vals := make([]string, 4)
	for i, o := range octets {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 || n > 255 {
			return "", ErrMalformedIPv4
		}
		vals[i] = o
	}
	// octets are d.c.b.a -> reverse back to a.b.c.d
	ip := vals[3] + "." + vals[2] + "." + vals[1] + "." + vals[0]
	if net.ParseIP(ip) == nil {
		return "", ErrMalformedIPv4
	}
	return ip, nil
}

// FingerprintLabel returns the first 12 hex characters of a hash or
// fingerprint, for use as a single DNS label under bin.<root> or ca.<root>.
// Producers must reject inputs shorter than 12 hex characters rather than
// silently truncating (spec §9 open question).
func FingerprintLabel(hexHash string) (string, error) {
	if len(hexHash) < 12 {
		return "", ErrShortHash
	}
	return strings.ToLower(hexHash[:12]), nil
}

// FingerprintQueryName builds the full query name for a binary hash or
// cert fingerprint under the given zone, e.g. "a3f2b8c91d4e.bin.i1.is.".
func FingerprintQueryName(hexHash, zone string) (string, error) {
	label, err := FingerprintLabel(hexHash)
	if err != nil {
		return "", err
	}
	return dns.Fqdn(label + "." + strings.TrimSuffix(zone, ".")), nil
}

// IsValidDNSName delegates to miekg/dns rather than reimplementing RFC 1035
// label-length and character-set rules.
func IsValidDNSName(name string) bool {
	if name == "." {
		return true
	}
	_, ok := dns.IsDomainName(name)
	return ok
}
