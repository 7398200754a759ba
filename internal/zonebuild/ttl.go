// Package zonebuild turns a DefenseSnapshot into the authoritative DNS
// zones the runtime serves: one A record per blocked IP in the blocklist
// zone, a parallel TXT reputation record, country/ASN block TXTs, and a
// single near-zero-TTL signal record clients poll before trusting the
// higher-TTL zones.
package zonebuild

import "github.com/i1is/trustplane/pkg/models"

// TTL policy (seconds), per the external-interface TTL table.
const (
	TTLNSReferral         = 86400
	TTLStaticNodeAddr     = 86400
	TTLDDNS               = 300
	TTLTLSA               = 86400
	TTLBlocklistConfirmed = 86400
	TTLBlocklistSuspicious = 3600
	TTLBlocklistCommunity = 43200
	TTLReputation         = 7200
	TTLSignal             = 30
	TTLGeo                = 86400
	TTLASN                = 86400
	// TTLBinCert is unnamed in the external TTL table; binary/cert
	// consensus records are treated the same as the other long-lived,
	// infrequently-changing intelligence zones (geo/ASN/static-node).
	TTLBinCert = 86400
	SOAMinimum = 300
)

// ttlForCode maps a DNSBL answer code to the blocklist TTL tier. The three
// named tiers (Confirmed/Suspicious/Community) cover the codes the zone
// builder actually emits; WebScanner and BruteForce share the Suspicious
// tier since neither carries its own TTL in the policy table.
func ttlForCode(code models.DnsblCode) uint32 {
	switch code {
	case models.DnsblCommunity:
		return TTLBlocklistCommunity
	case models.DnsblSuspicious, models.DnsblWebScanner, models.DnsblBruteForce:
		return TTLBlocklistSuspicious
	default:
		return TTLBlocklistConfirmed
	}
}

// reputationThreatName is the "threat=" value written into a reputation
// TXT record for a given DNSBL code.
func reputationThreatName(code models.DnsblCode) string {
	switch code {
	case models.DnsblListed:
		return "listed"
	case models.DnsblMalicious:
		return "malicious"
	case models.DnsblSuspicious:
		return "suspicious"
	case models.DnsblWebScanner:
		return "webscanner"
	case models.DnsblBruteForce:
		return "bruteforce"
	case models.DnsblCommunity:
		return "community"
	default:
		return "unknown"
	}
}
