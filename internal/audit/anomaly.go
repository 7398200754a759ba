package audit

import "github.com/i1is/trustplane/pkg/models"

// Severity ranks an Anomaly for operator triage.
type Severity uint8

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// AnomalyKind names the condition an Anomaly reports (spec §4.2).
type AnomalyKind string

const (
	AnomalyUnknownBinary     AnomalyKind = "unknown_binary"
	AnomalyRareBinary        AnomalyKind = "rare_binary"
	AnomalySuspiciousLocation AnomalyKind = "suspicious_location"
	AnomalyExpiredCert       AnomalyKind = "expired_cert"
	AnomalyUnknownCert       AnomalyKind = "unknown_cert"
)

// Anomaly is one flagged condition tied back to the path or fingerprint
// that triggered it.
type Anomaly struct {
	Kind     AnomalyKind
	Severity Severity
	Subject  string // binary path or cert fingerprint
	Detail   string
}

// CompareBinaryAnomalies flags anomalies for one binary after its
// hash_consensus factor has been filled in by the consensus query path
// (spec §4.2).
func CompareBinaryAnomalies(bin models.BinaryInfo) []Anomaly {
	var out []Anomaly
	var hashConsensus float64
	if bin.TrustScore != nil {
		hashConsensus = bin.TrustScore.HashConsensus
	}

	switch {
	case hashConsensus < 0.01:
		sev := SeverityMedium
		if bin.Running {
			sev = SeverityHigh
		}
		out = append(out, Anomaly{
			Kind: AnomalyUnknownBinary, Severity: sev, Subject: bin.Path,
			Detail: "hash not observed in network consensus",
		})
	case hashConsensus < 0.3:
		out = append(out, Anomaly{
			Kind: AnomalyRareBinary, Severity: SeverityLow, Subject: bin.Path,
			Detail: "hash rarely observed in network consensus",
		})
	}

	if bin.Running && UsageNormality(bin.Path, true) < 1.0 {
		underSystem := bin.Path != "" && (hasPrefixAny(bin.Path, "/usr/", "/bin", "/sbin"))
		if !underSystem {
			out = append(out, Anomaly{
				Kind: AnomalySuspiciousLocation, Severity: SeverityMedium, Subject: bin.Path,
				Detail: "running binary located outside standard system paths",
			})
		}
	}

	return out
}

func hasPrefixAny(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}

// CompareCertAnomalies flags anomalies for one certificate after its
// in_consensus tri-state has been filled in.
func CompareCertAnomalies(cert models.RootCertInfo) []Anomaly {
	var out []Anomaly
	if cert.Expired {
		out = append(out, Anomaly{
			Kind: AnomalyExpiredCert, Severity: SeverityMedium, Subject: cert.Fingerprint,
			Detail: "certificate validity period has passed",
		})
	}
	if cert.InConsensus == models.TriAbsent {
		out = append(out, Anomaly{
			Kind: AnomalyUnknownCert, Severity: SeverityCritical, Subject: cert.Fingerprint,
			Detail: "certificate confirmed absent from network consensus",
		})
	}
	return out
}
