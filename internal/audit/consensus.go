package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/i1is/trustplane/internal/encoding"
	"github.com/miekg/dns"
)

// ConsensusResult is what a consensus query for one hash or fingerprint
// found: whether it's known at all, and how many nodes are reporting it.
type ConsensusResult struct {
	Found     bool
	NodeCount int
	Trust     float64 // only populated for binary queries
}

// ConsensusClient queries the intelligence zones published by the DNS
// Authority Runtime over the same wire protocol it serves (miekg/dns),
// so publishing and querying share one DNS stack.
type ConsensusClient struct {
	Resolver string // host:port of the authority to query
	Timeout  time.Duration
}

// NewConsensusClient returns a client with the default resolver timeout
// (spec §5 "DNS TXT consensus queries inherit resolver timeout (default 5s)").
func NewConsensusClient(resolver string) ConsensusClient {
	return ConsensusClient{Resolver: resolver, Timeout: 5 * time.Second}
}

// QueryBinaryHash looks up a binary's consensus record under zone (bin.<root>).
// NXDOMAIN and SERVFAIL mean "not in consensus", not an error (spec §4.2, §7).
func (c ConsensusClient) QueryBinaryHash(ctx context.Context, hash, zone string) (ConsensusResult, error) {
	name, err := encoding.FingerprintQueryName(hash, zone)
	if err != nil {
		return ConsensusResult{}, err
	}
	txt, absent, err := c.lookupTXT(ctx, name)
	if err != nil {
		return ConsensusResult{}, err
	}
	if absent || txt == "" {
		return ConsensusResult{Found: false}, nil
	}
	rec, err := encoding.DecodeBinaryTXT(txt)
	if err != nil {
		return ConsensusResult{}, err
	}
	return ConsensusResult{Found: true, NodeCount: rec.Nodes, Trust: rec.Trust}, nil
}

// QueryCertFingerprint looks up a certificate's consensus record under zone
// (ca.<root>).
func (c ConsensusClient) QueryCertFingerprint(ctx context.Context, fingerprint, zone string) (ConsensusResult, error) {
	name, err := encoding.FingerprintQueryName(fingerprint, zone)
	if err != nil {
		return ConsensusResult{}, err
	}
	txt, absent, err := c.lookupTXT(ctx, name)
	if err != nil {
		return ConsensusResult{}, err
	}
	if absent || txt == "" {
		return ConsensusResult{Found: false}, nil
	}
	rec, err := encoding.DecodeCertTXT(txt)
	if err != nil {
		return ConsensusResult{}, err
	}
	return ConsensusResult{Found: true, NodeCount: rec.Nodes}, nil
}

// lookupTXT issues one TXT query and returns the first answer's string, or
// absent=true when the resolver reported NXDOMAIN/SERVFAIL.
func (c ConsensusClient) lookupTXT(ctx context.Context, name string) (txt string, absent bool, err error) {
	m := new(dns.Msg)
	m.SetQuestion(name, dns.TypeTXT)

	client := &dns.Client{Timeout: c.Timeout}
	resp, _, err := client.ExchangeContext(ctx, m, c.Resolver)
	if err != nil {
		return "", false, fmt.Errorf("audit: consensus query for %s: %w", name, err)
	}
	switch resp.Rcode {
	case dns.RcodeNameError, dns.RcodeServerFailure:
		return "", true, nil
	case dns.RcodeSuccess:
		// fall through
	default:
		return "", true, nil
	}
	for _, rr := range resp.Answer {
		if t, ok := rr.(*dns.TXT); ok && len(t.Txt) > 0 {
			txt := ""
			for _, chunk := range t.Txt {
				txt += chunk
			}
			return txt, false, nil
		}
	}
	return "", true, nil
}
