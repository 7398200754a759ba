// Package verify implements the Verification Core: a deterministic trust
// digest of an AuditSnapshot, the verification token/URL derived from it,
// QR rendering, and the verdict comparison a second device performs.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/i1is/trustplane/pkg/models"
)

// ComputeDigest is a deterministic fingerprint of a snapshot: node id,
// sorted binary hashes, sorted certificate fingerprints. It is stable
// under list reordering and independent of per-scan timestamps or usage
// metrics (spec §4.3, testable properties #3 and #4).
func ComputeDigest(snapshot models.AuditSnapshot) string {
	hashes := make([]string, len(snapshot.Binaries))
	for i, b := range snapshot.Binaries {
		hashes[i] = b.SHA256
	}
	sort.Strings(hashes)

	fingerprints := make([]string, len(snapshot.RootCerts))
	for i, c := range snapshot.RootCerts {
		fingerprints[i] = c.Fingerprint
	}
	sort.Strings(fingerprints)

	var acc strings.Builder
	acc.WriteString(snapshot.NodeID)
	acc.WriteByte('|')
	acc.WriteString(strconv.Itoa(len(hashes)))
	acc.WriteByte('|')
	acc.WriteString(strings.Join(hashes, ""))
	acc.WriteByte('|')
	acc.WriteString(strconv.Itoa(len(fingerprints)))
	acc.WriteByte('|')
	acc.WriteString(strings.Join(fingerprints, ""))
	acc.WriteByte('|')

	sum := sha256.Sum256([]byte(acc.String()))
	return hex.EncodeToString(sum[:])
}
