package zonebuild

import (
	"sync"

	"github.com/i1is/trustplane/internal/encoding"
)

// PublishedStore holds binary and certificate records pushed over the admin
// API by auditd instances, keyed by hash/fingerprint. Publishing the same
// hash from a second node doesn't create a duplicate record — it bumps the
// existing one's Nodes count, since "network consensus" is exactly the
// number of independent nodes reporting the same binary or cert.
type PublishedStore struct {
	mu    sync.Mutex
	bins  map[string]encoding.BinaryRecord
	certs map[string]encoding.CertRecord
}

// NewPublishedStore returns an empty store.
func NewPublishedStore() *PublishedStore {
	return &PublishedStore{
		bins:  make(map[string]encoding.BinaryRecord),
		certs: make(map[string]encoding.CertRecord),
	}
}

// AddBinary records one node's observation of r.Hash, incrementing the
// consensus node count when that hash has already been published.
func (s *PublishedStore) AddBinary(r encoding.BinaryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.bins[r.Hash]; ok {
		r.Nodes = existing.Nodes + 1
	} else if r.Nodes < 1 {
		r.Nodes = 1
	}
	s.bins[r.Hash] = r
}

// AddCert records one node's observation of r.Fingerprint, incrementing the
// consensus node count when that fingerprint has already been published.
func (s *PublishedStore) AddCert(r encoding.CertRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.certs[r.Fingerprint]; ok {
		r.Nodes = existing.Nodes + 1
	} else if r.Nodes < 1 {
		r.Nodes = 1
	}
	s.certs[r.Fingerprint] = r
}

// Binaries returns every published binary record.
func (s *PublishedStore) Binaries() []encoding.BinaryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]encoding.BinaryRecord, 0, len(s.bins))
	for _, r := range s.bins {
		out = append(out, r)
	}
	return out
}

// Certs returns every published cert record.
func (s *PublishedStore) Certs() []encoding.CertRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]encoding.CertRecord, 0, len(s.certs))
	for _, r := range s.certs {
		out = append(out, r)
	}
	return out
}
