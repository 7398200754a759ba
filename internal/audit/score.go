package audit

import (
	"context"
	"math"
	"os/exec"
	"strings"
	"time"

	"github.com/i1is/trustplane/pkg/models"
)

// knownCATokens is the fixed roster of well-known CA name fragments
// checked case-insensitively against a certificate's issuer DN (spec §4.2).
var knownCATokens = []string{
	"DigiCert", "Let's Encrypt", "ISRG", "Comodo", "Sectigo", "GlobalSign",
	"Entrust", "GoDaddy", "Amazon", "Google Trust", "Microsoft", "Apple", "Mozilla",
}

// AgeFactor is a logistic curve that is ~0.18 at age 0, 0.5 at 30 days, and
// above 0.999 at a year (spec §4.2, testable property S4).
func AgeFactor(createdAt, now time.Time) float64 {
	ageDays := now.Sub(createdAt).Hours() / 24
	return 1 / (1 + math.Exp(-0.05*(ageDays-30)))
}

// UsageNormality scores how expected a binary's running/path combination is.
func UsageNormality(path string, running bool) float64 {
	underSystem := strings.HasPrefix(path, "/usr/") || strings.HasPrefix(path, "/bin") || strings.HasPrefix(path, "/sbin")
	switch {
	case underSystem && running:
		return 1.0
	case underSystem && !running:
		return 0.8
	case !underSystem && running:
		return 0.4
	default:
		return 0.5
	}
}

// ProvenanceChecker asks the host's package managers, in order, whether any
// claims ownership of path. It is an optional, best-effort capability: a
// missing tool or non-zero exit just means "no claim", never an error
// (spec §4.2, §9 "Subprocess provenance checks").
type ProvenanceChecker struct {
	Timeout time.Duration
}

// NewProvenanceChecker returns a checker with a sane default timeout.
func NewProvenanceChecker() ProvenanceChecker {
	return ProvenanceChecker{Timeout: 3 * time.Second}
}

// Score returns 1.0 if any package manager claims path, else 0.0.
func (c ProvenanceChecker) Score(ctx context.Context, path string) float64 {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	checks := []func(context.Context, string) bool{
		c.checkArch, c.checkDebian, c.checkRPM,
	}
	for _, check := range checks {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		claimed := check(cctx, path)
		cancel()
		if claimed {
			return 1.0
		}
	}
	return 0.0
}

func (c ProvenanceChecker) checkArch(ctx context.Context, path string) bool {
	return exec.CommandContext(ctx, "pacman", "-Qo", path).Run() == nil
}

func (c ProvenanceChecker) checkDebian(ctx context.Context, path string) bool {
	return exec.CommandContext(ctx, "dpkg", "-S", path).Run() == nil
}

func (c ProvenanceChecker) checkRPM(ctx context.Context, path string) bool {
	return exec.CommandContext(ctx, "rpm", "-qf", path).Run() == nil
}

// ScoreBinary computes the five-factor TrustScore for bin. hash_consensus
// is left at the caller's supplied value (0.0 locally; filled by the
// consensus query path).
func ScoreBinary(weights models.TrustWeights, bin models.BinaryInfo, now time.Time, hashConsensus float64, prov ProvenanceChecker) models.TrustScore {
	age := AgeFactor(bin.CreatedAt, now)
	identity := 1.0 // hook for prior-snapshot diffing; always stable today
	usage := UsageNormality(bin.Path, bin.Running)
	provenance := prov.Score(context.Background(), bin.Path)

	total := weights.HashConsensus*hashConsensus +
		weights.AgeFactor*age +
		weights.IdentityStability*identity +
		weights.UsageNormality*usage +
		weights.Provenance*provenance

	total = clamp01(total)

	return models.TrustScore{
		HashConsensus:     hashConsensus,
		AgeFactor:         age,
		IdentityStability: identity,
		UsageNormality:    usage,
		ProvenanceScore:   provenance,
		Total:             total,
	}
}

// ScoreCert computes the CertTrust for cert, excluding the network
// consensus component which is filled by the consensus query path.
func ScoreCert(cert models.RootCertInfo) models.CertTrust {
	score := 0.0
	if !cert.Expired {
		score += 0.3
	}
	knownIssuer := issuerIsKnownCA(cert.IssuerDN)
	if knownIssuer {
		score += 0.3
	}
	return models.CertTrust{
		Score:            score,
		NetworkConsensus: 0,
		ValidityOK:       !cert.Expired,
		KnownIssuer:      knownIssuer,
	}
}

func issuerIsKnownCA(issuerDN string) bool {
	lower := strings.ToLower(issuerDN)
	for _, token := range knownCATokens {
		if strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}
