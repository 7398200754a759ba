package encoding

import (
	"fmt"

	"github.com/i1is/trustplane/pkg/models"
)

// DnsblAnswer returns the synthetic "127.0.0.x" answer string for a code.
func DnsblAnswer(code models.DnsblCode) string {
	return fmt.Sprintf("127.0.0.%d", code)
}

// ValidDnsblCodes enumerates the codes the spec defines, for mapping
// validation in tests (testable property #6).
var ValidDnsblCodes = []models.DnsblCode{
	models.DnsblListed,
	models.DnsblMalicious,
	models.DnsblSuspicious,
	models.DnsblWebScanner,
	models.DnsblBruteForce,
	models.DnsblCommunity,
}
