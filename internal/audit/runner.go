package audit

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/i1is/trustplane/pkg/models"
)

// Options configures one audit run.
type Options struct {
	BinDirs     []string
	CertBundles []string
	CertDirs    []string
	Weights     models.TrustWeights
	Provenance  ProvenanceChecker
}

// DefaultOptions returns the options used when none are supplied.
func DefaultOptions() Options {
	return Options{
		BinDirs:     DefaultBinDirs,
		CertBundles: DefaultCertBundles,
		CertDirs:    DefaultCertDirs,
		Weights:     models.DefaultTrustWeights(),
		Provenance:  NewProvenanceChecker(),
	}
}

// Run performs one full audit pass: the three discovery stages run
// concurrently, correlation runs once afterward, then every binary and
// certificate is scored (spec §4.2, §5).
func Run(ctx context.Context, opts Options) (models.AuditSnapshot, error) {
	var (
		binaries  []models.BinaryInfo
		certs     []models.RootCertInfo
		processes []models.ProcessInfo
		binErr, certErr, procErr error
	)

	cpuCount := runtime.NumCPU()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		binaries, binErr = DiscoverBinaries(ctx, opts.BinDirs)
	}()
	go func() {
		defer wg.Done()
		certs, certErr = DiscoverCerts(opts.CertBundles, opts.CertDirs)
	}()
	go func() {
		defer wg.Done()
		processes, procErr = DiscoverProcesses(ctx, cpuCount)
	}()
	wg.Wait()

	if binErr != nil {
		return models.AuditSnapshot{}, binErr
	}
	if certErr != nil {
		return models.AuditSnapshot{}, certErr
	}
	if procErr != nil {
		return models.AuditSnapshot{}, procErr
	}

	Correlate(binaries, processes)

	now := time.Now().UTC()
	for i := range binaries {
		score := ScoreBinary(opts.Weights, binaries[i], now, 0, opts.Provenance)
		binaries[i].TrustScore = &score
	}
	for i := range certs {
		trust := ScoreCert(certs[i])
		certs[i].Trust = &trust
	}

	snapshot := models.AuditSnapshot{
		SnapshotID:   uuid.NewString(),
		NodeID:       NodeID(),
		CollectedAt:  now,
		SystemUptime: systemUptime(),
		CPUCount:     cpuCount,
		Binaries:     binaries,
		Processes:    processes,
		RootCerts:    certs,
	}
	snapshot.Summary = models.NewAuditSummary(binaries, processes, certs, models.LowTrustThreshold)
	return snapshot, nil
}

// NodeID returns the machine-id if available, else the hostname, else
// "unknown" (spec §3).
func NodeID() string {
	if data, err := os.ReadFile("/etc/machine-id"); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}

func systemUptime() time.Duration {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
