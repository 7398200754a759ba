package zonebuild

import (
	"strings"
	"testing"
	"time"

	"github.com/i1is/trustplane/internal/encoding"
	"github.com/i1is/trustplane/pkg/models"
	"github.com/miekg/dns"
)

func testConfig() ZoneConfig {
	return ZoneConfig{
		BlocklistZone:  "bl.i1.is.",
		ReputationZone: "rep.i1.is.",
		GeoZone:        "geo.i1.is.",
		ASNZone:        "asn.i1.is.",
		SignalZone:     "sig.i1.is.",
		BinZone:        "bin.i1.is.",
		CAZone:         "ca.i1.is.",
	}
}

func TestBuildZonesEntryCountS5(t *testing.T) {
	snap := models.DefenseSnapshot{
		BlockedIPs:               []string{"1.2.3.4", "10.0.0.1", "10.0.0.0/24"},
		BlockedCountries:         []string{"cn", "ru"},
		BlockedCountriesOutbound: []string{"cn", "kz"},
		BlockedASNs:              []string{"AS12345", "AS67890"},
	}
	cat, err := BuildZones(testConfig(), snap, nil, 1, time.Unix(1_700_000_000, 0))
	if err != nil {
		t.Fatal(err)
	}
	if cat.EntryCount != 8 {
		t.Fatalf("EntryCount = %d, want 8", cat.EntryCount)
	}
}

func TestBuildZonesCIDRExclusion(t *testing.T) {
	snap := models.DefenseSnapshot{BlockedIPs: []string{"10.0.0.0/24", "192.168.1.0/24"}}
	cat, err := BuildZones(testConfig(), snap, nil, 1, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	bl := cat.Zones[testConfig().BlocklistZone]
	if bl.RecordCount() != 0 {
		t.Fatalf("expected 0 blocklist records for CIDR-only input, got %d", bl.RecordCount())
	}
}

func TestBuildZonesDualDirectionGeo(t *testing.T) {
	snap := models.DefenseSnapshot{
		BlockedCountries:         []string{"cn"},
		BlockedCountriesOutbound: []string{"cn"},
	}
	cat, err := BuildZones(testConfig(), snap, nil, 1, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	geo := cat.Zones[testConfig().GeoZone]
	if geo.RecordCount() != 1 {
		t.Fatalf("expected exactly one geo record for a country blocked both ways, got %d", geo.RecordCount())
	}
}

func TestDnsblCodesMapToUniqueAnswers(t *testing.T) {
	seen := make(map[string]bool)
	for _, code := range []models.DnsblCode{
		models.DnsblListed, models.DnsblMalicious, models.DnsblSuspicious,
		models.DnsblWebScanner, models.DnsblBruteForce, models.DnsblCommunity,
	} {
		ip, c, isCIDR := parseBlockedIP("1.2.3.4:" + reputationThreatName(code))
		if isCIDR {
			t.Fatalf("unexpected CIDR detection for plain ip")
		}
		if ip != "1.2.3.4" || c != code {
			t.Fatalf("parseBlockedIP round trip failed for %v: ip=%s code=%v", code, ip, c)
		}
		answer := encoding.DnsblAnswer(code)
		if seen[answer] {
			t.Fatalf("duplicate answer mapping for %v", code)
		}
		seen[answer] = true
	}
}

func TestBuildZonesTTLTiers(t *testing.T) {
	snap := models.DefenseSnapshot{
		BlockedIPs: []string{"1.2.3.4:malicious", "5.6.7.8:suspicious", "9.9.9.9:community"},
	}
	cat, err := BuildZones(testConfig(), snap, nil, 1, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	bl := cat.Zones[testConfig().BlocklistZone]
	wantTTLs := map[string]uint32{
		"4.3.2.1.bl.i1.is.": TTLBlocklistConfirmed,
		"8.7.6.5.bl.i1.is.": TTLBlocklistSuspicious,
		"9.9.9.9.bl.i1.is.": TTLBlocklistCommunity,
	}
	for _, rr := range bl.Records {
		h := rr.Header()
		if h.Rrtype != dns.TypeA {
			continue
		}
		want, ok := wantTTLs[h.Name]
		if !ok {
			t.Fatalf("unexpected blocklist record name %q", h.Name)
		}
		if h.Ttl != want {
			t.Errorf("%s: ttl = %d, want %d", h.Name, h.Ttl, want)
		}
		delete(wantTTLs, h.Name)
	}
	if len(wantTTLs) != 0 {
		t.Fatalf("missing expected records: %v", wantTTLs)
	}
}

func TestBuildZonesPublishesBinaryAndCertConsensusRecords(t *testing.T) {
	store := NewPublishedStore()
	store.AddBinary(encoding.BinaryRecord{Hash: "a3f2b8c91d4e567890abcdef", Name: "bash", Trust: 0.9})
	store.AddBinary(encoding.BinaryRecord{Hash: "a3f2b8c91d4e567890abcdef", Name: "bash", Trust: 0.9})
	store.AddCert(encoding.CertRecord{Fingerprint: "deadbeefcafe0123456789ab", Issuer: "Let's Encrypt"})

	cat, err := BuildZones(testConfig(), models.DefenseSnapshot{}, store, 1, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	bin := cat.Zones[testConfig().BinZone]
	if bin.RecordCount() != 1 {
		t.Fatalf("expected one bin record, got %d", bin.RecordCount())
	}
	wantBinName := "a3f2b8c91d4e.bin.i1.is."
	var found bool
	for _, rr := range bin.Records {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}
		if txt.Header().Name != wantBinName {
			t.Fatalf("unexpected bin record name %q", txt.Header().Name)
		}
		rec, err := encoding.DecodeBinaryTXT(strings.Join(txt.Txt, ""))
		if err != nil {
			t.Fatal(err)
		}
		if rec.Nodes != 2 {
			t.Fatalf("expected nodes=2 after two publications of the same hash, got %d", rec.Nodes)
		}
		found = true
	}
	if !found {
		t.Fatalf("no bin TXT record found")
	}

	ca := cat.Zones[testConfig().CAZone]
	if ca.RecordCount() != 1 {
		t.Fatalf("expected one ca record, got %d", ca.RecordCount())
	}
}
