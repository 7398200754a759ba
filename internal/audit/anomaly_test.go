package audit

import (
	"testing"

	"github.com/i1is/trustplane/pkg/models"
)

func TestCompareBinaryAnomaliesUnknownBinarySeverity(t *testing.T) {
	running := models.BinaryInfo{Path: "/usr/bin/odd", Running: true, TrustScore: &models.TrustScore{HashConsensus: 0}}
	found := CompareBinaryAnomalies(running)
	if len(found) == 0 || found[0].Kind != AnomalyUnknownBinary || found[0].Severity != SeverityHigh {
		t.Fatalf("expected High UnknownBinary for running unknown binary, got %+v", found)
	}

	idle := models.BinaryInfo{Path: "/usr/bin/odd", Running: false, TrustScore: &models.TrustScore{HashConsensus: 0}}
	found = CompareBinaryAnomalies(idle)
	if len(found) == 0 || found[0].Kind != AnomalyUnknownBinary || found[0].Severity != SeverityMedium {
		t.Fatalf("expected Medium UnknownBinary for idle unknown binary, got %+v", found)
	}
}

func TestCompareBinaryAnomaliesRareBinary(t *testing.T) {
	bin := models.BinaryInfo{Path: "/usr/bin/rare", TrustScore: &models.TrustScore{HashConsensus: 0.15}}
	found := CompareBinaryAnomalies(bin)
	if len(found) != 1 || found[0].Kind != AnomalyRareBinary || found[0].Severity != SeverityLow {
		t.Fatalf("expected Low RareBinary, got %+v", found)
	}
}

func TestCompareCertAnomalies(t *testing.T) {
	expired := models.RootCertInfo{Fingerprint: "abc", Expired: true, InConsensus: models.TriPresent}
	found := CompareCertAnomalies(expired)
	if len(found) != 1 || found[0].Kind != AnomalyExpiredCert {
		t.Fatalf("expected ExpiredCert anomaly, got %+v", found)
	}

	unknown := models.RootCertInfo{Fingerprint: "def", Expired: false, InConsensus: models.TriAbsent}
	found = CompareCertAnomalies(unknown)
	if len(found) != 1 || found[0].Kind != AnomalyUnknownCert || found[0].Severity != SeverityCritical {
		t.Fatalf("expected Critical UnknownCert anomaly, got %+v", found)
	}
}
