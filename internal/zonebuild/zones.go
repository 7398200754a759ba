package zonebuild

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/i1is/trustplane/internal/encoding"
	"github.com/miekg/dns"
	"github.com/i1is/trustplane/pkg/models"
)

// ZoneConfig names the seven zone origins the builder populates.
type ZoneConfig struct {
	BlocklistZone  string
	ReputationZone string
	GeoZone        string
	ASNZone        string
	SignalZone     string
	BinZone        string
	CAZone         string
}

// Zone is one authoritative zone: its origin, a synthesized SOA, and every
// record the builder derived for it.
type Zone struct {
	Origin  string
	Serial  uint32
	Records []dns.RR
}

// Catalog is the complete set of zones built from one defense snapshot,
// ready to hand to the DNS Authority Runtime.
type Catalog struct {
	Zones       map[string]*Zone
	EntryCount  int // total_count published in the signal TXT (spec §4.4, scenario S5)
	BuiltAt     time.Time
}

// defaultCode is used for a blocked_ips entry with no classification
// suffix: such an IP is published as 127.0.0.1 with threat=listed in its
// reputation TXT.
const defaultCode = models.DnsblListed

// parseBlockedIP splits an optional "<ip>:<code-name>" entry and reports
// whether the IP portion is a CIDR (which the blocklist zone skips,
// testable property #11).
func parseBlockedIP(entry string) (ip string, code models.DnsblCode, isCIDR bool) {
	ipPart := entry
	code = defaultCode
	if idx := strings.LastIndexByte(entry, ':'); idx >= 0 {
		name := strings.ToLower(entry[idx+1:])
		if c, ok := codeByName(name); ok {
			ipPart = entry[:idx]
			code = c
		}
	}
	_, _, err := net.ParseCIDR(ipPart)
	return ipPart, code, err == nil
}

func codeByName(name string) (models.DnsblCode, bool) {
	switch name {
	case "listed":
		return models.DnsblListed, true
	case "malicious":
		return models.DnsblMalicious, true
	case "suspicious":
		return models.DnsblSuspicious, true
	case "webscanner":
		return models.DnsblWebScanner, true
	case "bruteforce":
		return models.DnsblBruteForce, true
	case "community":
		return models.DnsblCommunity, true
	default:
		return 0, false
	}
}

func mustRR(line string) dns.RR {
	rr, err := dns.NewRR(line)
	if err != nil {
		// Every line is built from validated inputs (parsed IPs, ASN
		// numbers, fixed label shapes); a failure here is a builder bug,
		// not bad input, so it is loud rather than silently dropped.
		panic(fmt.Sprintf("zonebuild: invalid generated RR %q: %v", line, err))
	}
	return rr
}

// soaRoot is the fixed MNAME/RNAME root every zone's SOA names, regardless
// of that zone's own origin (original implementation hardcodes "ns1.i1.is."
// and "admin.i1.is." for every zone it creates).
const soaRoot = "i1.is."

func soaRecord(origin string, ttl, serial uint32) dns.RR {
	line := fmt.Sprintf("%s %d IN SOA ns1.%s admin.%s %d 3600 900 604800 %d",
		origin, ttl, soaRoot, soaRoot, serial, SOAMinimum)
	return mustRR(line)
}

// BuildZones turns a defense snapshot into the five defense-policy zones
// (spec §4.4) plus the bin.<root>/ca.<root> consensus zones (spec §6),
// populated from published's current contents. serial becomes every zone's
// SOA serial and is echoed into the signal TXT so clients can detect a
// reload without comparing contents. published may be nil, in which case
// the bin/ca zones carry only their SOA.
func BuildZones(cfg ZoneConfig, snap models.DefenseSnapshot, published *PublishedStore, serial uint32, now time.Time) (*Catalog, error) {
	cat := &Catalog{
		Zones:   make(map[string]*Zone, 7),
		BuiltAt: now,
	}

	blocklist := &Zone{Origin: cfg.BlocklistZone, Serial: serial}
	blocklist.Records = append(blocklist.Records, soaRecord(cfg.BlocklistZone, TTLBlocklistConfirmed, serial))
	reputation := &Zone{Origin: cfg.ReputationZone, Serial: serial}
	reputation.Records = append(reputation.Records, soaRecord(cfg.ReputationZone, TTLReputation, serial))

	blockedEntries := 0
	for _, entry := range snap.BlockedIPs {
		ip, code, isCIDR := parseBlockedIP(entry)
		if isCIDR {
			continue
		}
		blockedEntries++
		label, err := encoding.ReverseIPv4(ip)
		if err != nil {
			return nil, fmt.Errorf("zonebuild: blocklist entry %q: %w", entry, err)
		}

		ttl := ttlForCode(code)
		name := dns.Fqdn(label + "." + strings.TrimSuffix(cfg.BlocklistZone, "."))
		blocklist.Records = append(blocklist.Records,
			mustRR(fmt.Sprintf("%s %d IN A %s", name, ttl, encoding.DnsblAnswer(code))))

		repName := dns.Fqdn(label + "." + strings.TrimSuffix(cfg.ReputationZone, "."))
		kv := fmt.Sprintf("cc=;asn=;org=;ports=;threat=%s;pattern=;hits=0", reputationThreatName(code))
		reputation.Records = append(reputation.Records,
			mustRR(fmt.Sprintf("%s %d IN TXT %q", repName, TTLReputation, kv)))
	}

	geo := &Zone{Origin: cfg.GeoZone, Serial: serial}
	geo.Records = append(geo.Records, soaRecord(cfg.GeoZone, TTLGeo, serial))
	inbound := make(map[string]bool)
	for _, cc := range snap.BlockedCountries {
		inbound[strings.ToLower(cc)] = true
	}
	outbound := make(map[string]bool)
	for _, cc := range snap.BlockedCountriesOutbound {
		outbound[strings.ToLower(cc)] = true
	}
	merged := make(map[string]bool, len(inbound)+len(outbound))
	for cc := range inbound {
		merged[cc] = true
	}
	for cc := range outbound {
		merged[cc] = true
	}
	ccList := make([]string, 0, len(merged))
	for cc := range merged {
		ccList = append(ccList, cc)
	}
	sort.Strings(ccList)
	for _, cc := range ccList {
		direction := "inbound"
		switch {
		case inbound[cc] && outbound[cc]:
			direction = "both"
		case outbound[cc] && !inbound[cc]:
			direction = "outbound"
		}
		name := dns.Fqdn(cc + "." + strings.TrimSuffix(cfg.GeoZone, "."))
		geo.Records = append(geo.Records,
			mustRR(fmt.Sprintf("%s %d IN TXT %q", name, TTLGeo, "status=blocked;direction="+direction)))
	}

	asn := &Zone{Origin: cfg.ASNZone, Serial: serial}
	asn.Records = append(asn.Records, soaRecord(cfg.ASNZone, TTLASN, serial))
	for _, raw := range snap.BlockedASNs {
		canonical := strings.ToUpper(raw)
		if !strings.HasPrefix(canonical, "AS") {
			canonical = "AS" + canonical
		}
		n := strings.TrimPrefix(canonical, "AS")
		if _, err := strconv.Atoi(n); err != nil {
			return nil, fmt.Errorf("zonebuild: asn %q: %w", raw, ErrMalformedASN)
		}
		name := dns.Fqdn(n + "." + strings.TrimSuffix(cfg.ASNZone, "."))
		asn.Records = append(asn.Records,
			mustRR(fmt.Sprintf("%s %d IN TXT %q", name, TTLASN, "status=blocked;asn="+canonical)))
	}

	totalCount := blockedEntries + len(snap.BlockedCountries) + len(snap.BlockedCountriesOutbound) + len(snap.BlockedASNs)

	signal := &Zone{Origin: cfg.SignalZone, Serial: serial}
	signal.Records = append(signal.Records, soaRecord(cfg.SignalZone, TTLSignal, serial))
	signalName := dns.Fqdn("_v." + strings.TrimSuffix(cfg.SignalZone, "."))
	signalTXT := encoding.SignalData{Serial: uint64(serial), Entries: uint32(totalCount), Updated: now}.ToTXT()
	signal.Records = append(signal.Records,
		mustRR(fmt.Sprintf("%s %d IN TXT %q", signalName, TTLSignal, signalTXT)))

	bin := &Zone{Origin: cfg.BinZone, Serial: serial}
	bin.Records = append(bin.Records, soaRecord(cfg.BinZone, TTLBinCert, serial))
	ca := &Zone{Origin: cfg.CAZone, Serial: serial}
	ca.Records = append(ca.Records, soaRecord(cfg.CAZone, TTLBinCert, serial))

	if published != nil {
		for _, rec := range published.Binaries() {
			name, err := encoding.FingerprintQueryName(rec.Hash, cfg.BinZone)
			if err != nil {
				return nil, fmt.Errorf("zonebuild: published binary %q: %w", rec.Hash, err)
			}
			txt, err := encoding.EncodeBinaryTXT(rec)
			if err != nil {
				return nil, fmt.Errorf("zonebuild: published binary %q: %w", rec.Hash, err)
			}
			bin.Records = append(bin.Records, mustRR(fmt.Sprintf("%s %d IN TXT %q", name, TTLBinCert, txt)))
		}
		for _, rec := range published.Certs() {
			name, err := encoding.FingerprintQueryName(rec.Fingerprint, cfg.CAZone)
			if err != nil {
				return nil, fmt.Errorf("zonebuild: published cert %q: %w", rec.Fingerprint, err)
			}
			txt, err := encoding.EncodeCertTXT(rec)
			if err != nil {
				return nil, fmt.Errorf("zonebuild: published cert %q: %w", rec.Fingerprint, err)
			}
			ca.Records = append(ca.Records, mustRR(fmt.Sprintf("%s %d IN TXT %q", name, TTLBinCert, txt)))
		}
	}

	cat.Zones[cfg.BlocklistZone] = blocklist
	cat.Zones[cfg.ReputationZone] = reputation
	cat.Zones[cfg.GeoZone] = geo
	cat.Zones[cfg.ASNZone] = asn
	cat.Zones[cfg.SignalZone] = signal
	cat.Zones[cfg.BinZone] = bin
	cat.Zones[cfg.CAZone] = ca
	cat.EntryCount = totalCount

	return cat, nil
}

// RecordCount returns the number of non-SOA records in a zone, for the
// admin status surface's per-zone record counts.
func (z *Zone) RecordCount() int {
	count := 0
	for _, rr := range z.Records {
		if _, ok := rr.(*dns.SOA); ok {
			continue
		}
		count++
	}
	return count
}
