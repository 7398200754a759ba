package verify

import (
	"testing"

	"github.com/i1is/trustplane/pkg/models"
)

func snapshotFor(binHashes, certFingerprints []string) models.AuditSnapshot {
	bins := make([]models.BinaryInfo, len(binHashes))
	for i, h := range binHashes {
		bins[i] = models.BinaryInfo{SHA256: h}
	}
	certs := make([]models.RootCertInfo, len(certFingerprints))
	for i, f := range certFingerprints {
		certs[i] = models.RootCertInfo{Fingerprint: f}
	}
	return models.AuditSnapshot{
		NodeID:    "node-a",
		Binaries:  bins,
		RootCerts: certs,
	}
}

func TestComputeDigestStableUnderReordering(t *testing.T) {
	a := snapshotFor([]string{"aaa", "bbb", "ccc"}, []string{"f1", "f2"})
	b := snapshotFor([]string{"ccc", "aaa", "bbb"}, []string{"f2", "f1"})

	if ComputeDigest(a) != ComputeDigest(b) {
		t.Fatalf("digest changed under list reordering")
	}
}

func TestComputeDigestChangesOnContentChange(t *testing.T) {
	a := snapshotFor([]string{"aaa", "bbb"}, []string{"f1"})
	b := snapshotFor([]string{"aaa", "bbc"}, []string{"f1"})

	if ComputeDigest(a) == ComputeDigest(b) {
		t.Fatalf("digest did not change when a binary hash changed")
	}
}

func TestComputeDigestIgnoresSnapshotIDAndTimestamp(t *testing.T) {
	a := snapshotFor([]string{"aaa"}, nil)
	b := a
	b.SnapshotID = "different-id"
	b.CollectedAt = a.CollectedAt.Add(1)

	if ComputeDigest(a) != ComputeDigest(b) {
		t.Fatalf("digest must not depend on SnapshotID or CollectedAt")
	}
}

func TestComputeDigestIsHex64(t *testing.T) {
	d := ComputeDigest(snapshotFor(nil, nil))
	if len(d) != 64 {
		t.Fatalf("digest length = %d, want 64", len(d))
	}
}
