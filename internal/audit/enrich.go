package audit

import (
	"context"
	"log"

	"github.com/i1is/trustplane/pkg/models"
)

// ZoneConfig names the two intelligence zones consensus queries run
// against.
type ZoneConfig struct {
	BinZone string
	CAZone  string
}

// EnrichWithConsensus fills in hash_consensus / network_consensus for every
// binary and certificate in snapshot by querying client, reclamps the
// binary totals, and returns every anomaly flagged along the way (spec
// §4.2 "Consensus query" and "Anomaly comparison"). Query failures are
// logged and treated as "not found" for that one entry; they never abort
// the enrichment pass (spec §7).
func EnrichWithConsensus(ctx context.Context, snapshot *models.AuditSnapshot, client ConsensusClient, zones ZoneConfig, weights models.TrustWeights) []Anomaly {
	var anomalies []Anomaly

	for i := range snapshot.Binaries {
		bin := &snapshot.Binaries[i]
		result, err := client.QueryBinaryHash(ctx, bin.SHA256, zones.BinZone)
		if err != nil {
			log.Printf("[audit] consensus query failed for %s: %v", bin.Path, err)
			result = ConsensusResult{Found: false}
		}
		hashConsensus := 0.0
		if result.Found {
			hashConsensus = result.Trust
		}
		if bin.TrustScore == nil {
			empty := models.TrustScore{}
			bin.TrustScore = &empty
		}
		bin.TrustScore.HashConsensus = hashConsensus
		bin.TrustScore.Total = clamp01(
			weights.HashConsensus*hashConsensus +
				weights.AgeFactor*bin.TrustScore.AgeFactor +
				weights.IdentityStability*bin.TrustScore.IdentityStability +
				weights.UsageNormality*bin.TrustScore.UsageNormality +
				weights.Provenance*bin.TrustScore.ProvenanceScore,
		)
		anomalies = append(anomalies, CompareBinaryAnomalies(*bin)...)
	}

	for i := range snapshot.RootCerts {
		cert := &snapshot.RootCerts[i]
		result, err := client.QueryCertFingerprint(ctx, cert.Fingerprint, zones.CAZone)
		if err != nil {
			log.Printf("[audit] consensus query failed for cert %s: %v", cert.Fingerprint, err)
			result = ConsensusResult{Found: false}
		}
		if result.Found {
			cert.InConsensus = models.TriPresent
		} else {
			cert.InConsensus = models.TriAbsent
		}
		networkConsensus := 0.0
		if result.Found {
			networkConsensus = 0.4
		}
		if cert.Trust == nil {
			empty := ScoreCert(*cert)
			cert.Trust = &empty
		}
		prevConsensus := cert.Trust.NetworkConsensus
		cert.Trust.NetworkConsensus = networkConsensus
		cert.Trust.Score = clamp01(cert.Trust.Score - prevConsensus + networkConsensus)
		anomalies = append(anomalies, CompareCertAnomalies(*cert)...)
	}

	return anomalies
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
