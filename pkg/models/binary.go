package models

import "time"

// FileIdentity pins a binary to the inode/device pair the filesystem gave
// it at discovery time, so a later rename-and-replace is visible even if
// the path and hash both happen to match something familiar.
type FileIdentity struct {
	Inode  uint64 `json:"inode"`
	Device uint64 `json:"device"`
}

// BinaryInfo is one executable found during discovery, enriched in place by
// process correlation and scoring. It is never copied between snapshots;
// each scan owns its own set.
type BinaryInfo struct {
	Path         string       `json:"path"`
	SHA256       string       `json:"sha256"`
	SizeBytes    int64        `json:"sizeBytes"`
	CreatedAt    time.Time    `json:"createdAt"`
	ModifiedAt   time.Time    `json:"modifiedAt"`
	Identity     FileIdentity `json:"identity"`
	Running      bool         `json:"running"`
	ProcessNames []string     `json:"processNames,omitempty"`
	TrustScore   *TrustScore  `json:"trustScore,omitempty"`
}

// HasProcessName reports whether name is already recorded against this
// binary, so correlation can append without duplicating.
func (b *BinaryInfo) HasProcessName(name string) bool {
	for _, n := range b.ProcessNames {
		if n == name {
			return true
		}
	}
	return false
}

// TrustWeights are the configured weights for the five TrustScore factors.
// They must sum to 1.0 within one ULP (see testable property #1).
type TrustWeights struct {
	HashConsensus     float64 `json:"hashConsensus"`
	AgeFactor         float64 `json:"ageFactor"`
	IdentityStability float64 `json:"identityStability"`
	UsageNormality    float64 `json:"usageNormality"`
	Provenance        float64 `json:"provenance"`
}

// DefaultTrustWeights is the configured weight set used when none is
// supplied. Chosen so network consensus dominates but a binary with a
// clean local story is never scored to zero.
func DefaultTrustWeights() TrustWeights {
	return TrustWeights{
		HashConsensus:     0.35,
		AgeFactor:         0.15,
		IdentityStability: 0.15,
		UsageNormality:    0.15,
		Provenance:        0.20,
	}
}

// Sum returns the total of the five weights, for the normalization check.
func (w TrustWeights) Sum() float64 {
	return w.HashConsensus + w.AgeFactor + w.IdentityStability + w.UsageNormality + w.Provenance
}

// TrustScore is a weighted sum in [0,1] of five factors. Component fields
// are retained even after the total is computed, so an operator can see
// which factor dragged a binary's score down.
type TrustScore struct {
	HashConsensus     float64 `json:"hashConsensus"`
	AgeFactor         float64 `json:"ageFactor"`
	IdentityStability float64 `json:"identityStability"`
	UsageNormality    float64 `json:"usageNormality"`
	ProvenanceScore   float64 `json:"provenanceScore"`
	Total             float64 `json:"total"`
}
