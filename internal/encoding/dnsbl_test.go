package encoding

import (
	"testing"

	"github.com/i1is/trustplane/pkg/models"
)

func TestDnsblCodeMappingUnique(t *testing.T) {
	want := map[models.DnsblCode]string{
		models.DnsblListed:     "127.0.0.1",
		models.DnsblMalicious:  "127.0.0.2",
		models.DnsblSuspicious: "127.0.0.3",
		models.DnsblWebScanner: "127.0.0.4",
		models.DnsblBruteForce: "127.0.0.5",
		models.DnsblCommunity:  "127.0.0.10",
	}
	seen := make(map[string]bool)
	for _, code := range ValidDnsblCodes {
		answer := DnsblAnswer(code)
		if want[code] != answer {
			t.Fatalf("code %d: want %s, got %s", code, want[code], answer)
		}
		if seen[answer] {
			t.Fatalf("duplicate DNSBL answer %s", answer)
		}
		seen[answer] = true
	}
}
