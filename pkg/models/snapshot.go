package models

import "time"

// AuditSummary is a quick-glance rollup of an AuditSnapshot, computed once
// at snapshot-build time so callers don't have to walk the full lists just
// to print a one-line status.
type AuditSummary struct {
	BinaryCount      int `json:"binaryCount"`
	ProcessCount     int `json:"processCount"`
	CertCount        int `json:"certCount"`
	LowTrustBinaries int `json:"lowTrustBinaries"`
}

// LowTrustThreshold is the default cutoff below which a binary's
// TrustScore.Total counts toward AuditSummary.LowTrustBinaries.
const LowTrustThreshold = 0.3

// NewAuditSummary computes the rollup for a set of binaries, processes and
// certs against threshold.
func NewAuditSummary(binaries []BinaryInfo, processes []ProcessInfo, certs []RootCertInfo, threshold float64) AuditSummary {
	low := 0
	for _, b := range binaries {
		if b.TrustScore != nil && b.TrustScore.Total < threshold {
			low++
		}
	}
	return AuditSummary{
		BinaryCount:      len(binaries),
		ProcessCount:     len(processes),
		CertCount:        len(certs),
		LowTrustBinaries: low,
	}
}

// AuditSnapshot is the complete, point-in-time result of one audit pass.
// SnapshotID is a correlation key only — it never feeds the trust digest
// (spec §4.3), so two back-to-back scans of an unchanged host still digest
// identically even though their SnapshotIDs differ.
type AuditSnapshot struct {
	SnapshotID    string        `json:"snapshotId"`
	NodeID        string        `json:"nodeId"`
	CollectedAt   time.Time     `json:"collectedAt"`
	SystemUptime  time.Duration `json:"systemUptimeSecs"`
	CPUCount      int           `json:"cpuCount"`
	Binaries      []BinaryInfo  `json:"binaries"`
	Processes     []ProcessInfo `json:"processes"`
	RootCerts     []RootCertInfo `json:"rootCerts"`
	Summary       AuditSummary  `json:"summary"`
}

// DefenseSnapshot is the point-in-time set of blocks and the whitelist that
// the zone builder turns into authoritative DNS zones.
type DefenseSnapshot struct {
	BlockedIPs               []string `json:"blockedIps,omitempty"`
	BlockedCountries         []string `json:"blockedCountries,omitempty"`
	BlockedCountriesOutbound []string `json:"blockedCountriesOutbound,omitempty"`
	BlockedASNs              []string `json:"blockedAsns,omitempty"`
	WhitelistedIPs           []string `json:"whitelistedIps,omitempty"`
}
