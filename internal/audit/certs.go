package audit

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/i1is/trustplane/pkg/models"
)

// DefaultCertBundles are the well-known CA bundle files across common
// distributions (spec §4.2).
var DefaultCertBundles = []string{
	"/etc/ssl/certs/ca-certificates.crt",            // Debian/Ubuntu
	"/etc/pki/tls/certs/ca-bundle.crt",               // Fedora/RHEL
	"/etc/pki/ca-trust/extracted/pem/tls-ca-bundle.pem", // Fedora/RHEL (p11-kit extracted)
	"/etc/ca-certificates/extracted/tls-ca-bundle.pem",  // Arch
	"/etc/ssl/ca-bundle.pem",                         // SUSE
	"/etc/ssl/cert.pem",                              // Alpine
}

// DefaultCertDirs are well-known per-certificate directories, walked one
// level deep; every regular file in them is parsed as PEM, whatever its
// extension.
var DefaultCertDirs = []string{
	"/usr/share/ca-certificates",
	"/usr/local/share/ca-certificates",
	"/etc/ca-certificates/trust-source/anchors",
	"/usr/share/p11-kit/trust-anchors",
}

// DiscoverCerts parses every configured bundle file and per-cert directory,
// deduplicating by fingerprint. A malformed entry is logged and skipped;
// it never aborts discovery (spec §7).
func DiscoverCerts(bundles, dirs []string) ([]models.RootCertInfo, error) {
	seen := make(map[string]bool)
	var out []models.RootCertInfo

	for _, path := range bundles {
		data, err := os.ReadFile(path)
		if err != nil {
			continue // absent bundle is normal, not every distro ships every path
		}
		certs, err := parsePEMCerts(path, data)
		if err != nil {
			log.Printf("[audit] skipping cert bundle %s: %v", path, err)
		}
		for _, c := range certs {
			if !seen[c.Fingerprint] {
				seen[c.Fingerprint] = true
				out = append(out, c)
			}
		}
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				log.Printf("[audit] skipping cert file %s: %v", path, err)
				continue
			}
			certs, err := parsePEMCerts(path, data)
			if err != nil {
				log.Printf("[audit] skipping cert file %s: %v", path, err)
				continue
			}
			for _, c := range certs {
				if !seen[c.Fingerprint] {
					seen[c.Fingerprint] = true
					out = append(out, c)
				}
			}
		}
	}

	return out, nil
}

func parsePEMCerts(sourcePath string, data []byte) ([]models.RootCertInfo, error) {
	var out []models.RootCertInfo
	rest := data
	now := time.Now()
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			log.Printf("[audit] malformed X.509 block in %s: %v", sourcePath, err)
			continue
		}
		sum := sha256.Sum256(block.Bytes)
		out = append(out, models.RootCertInfo{
			SourcePath:  sourcePath,
			Fingerprint: hex.EncodeToString(sum[:]),
			IssuerDN:    cert.Issuer.String(),
			SubjectDN:   cert.Subject.String(),
			SerialHex:   cert.SerialNumber.Text(16),
			NotBefore:   cert.NotBefore.UTC(),
			NotAfter:    cert.NotAfter.UTC(),
			Expired:     now.After(cert.NotAfter),
		})
	}
	if len(out) == 0 && len(rest) == len(data) {
		return nil, ErrMalformedPEM
	}
	return out, nil
}
