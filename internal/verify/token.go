package verify

import (
	"fmt"
	"time"
)

// DefaultTTLSeconds is the ExpectedTTL every token carries: the TTL a
// verifier expects to observe on the token's TXT record. Verdict
// comparisons tolerate drift up to ToleranceSeconds.
const DefaultTTLSeconds = 60

// ToleranceSeconds bounds the TTL/clock skew a verifier accepts before
// treating an otherwise-matching token as stale rather than ok.
const ToleranceSeconds = 10

// Token is the data a node publishes under its signal zone so a second,
// independent network path (a phone on cellular data, say) can confirm the
// node's live trust digest without trusting the node's own network.
type Token struct {
	DNSName       string
	NodePrefix    string
	ExpectedValue string
	ExpectedTTL   uint32
	Digest        string
	GeneratedAt   time.Time
}

// BuildToken derives the published TXT name and value for a node's current
// digest. dnsName uses the first 12 hex characters of the digest as a label,
// matching the fingerprint-to-label convention used elsewhere (spec §4.1);
// NodePrefix carries that same label separately for the verification URL.
func BuildToken(nodeID, digest string, binaryCount, certCount int, signalZone string, now time.Time) Token {
	prefix := digest
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	return Token{
		DNSName:       fmt.Sprintf("%s.%s", prefix, signalZone),
		NodePrefix:    prefix,
		ExpectedValue: fmt.Sprintf("digest=%s;ts=%d;bins=%d;certs=%d", digest, now.Unix(), binaryCount, certCount),
		ExpectedTTL:   DefaultTTLSeconds,
		Digest:        digest,
		GeneratedAt:   now,
	}
}

// VerificationURL builds the URL a QR code encodes: the address a second
// device visits (or resolves out-of-band) to fetch the expected value and
// compare it against what its own DNS resolution returns.
func VerificationURL(host string, t Token) string {
	return fmt.Sprintf("https://%s/verify?n=%s&d=%s&ttl=%d&ts=%d",
		host, t.NodePrefix, t.Digest, t.ExpectedTTL, t.GeneratedAt.Unix())
}
