package dnsserver

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/miekg/dns"
)

// tcpIdleTimeout matches the spec's "TCP connections have a 30-second idle
// timeout" (§4.5).
const tcpIdleTimeout = 30 * time.Second

// Server binds one UDP socket and one TCP listener on addr and answers
// queries from the Authority's currently-loaded catalog.
type Server struct {
	Addr      string
	Authority *Authority

	udp *dns.Server
	tcp *dns.Server
}

// NewServer returns a Server bound to addr (default port 5353 per spec
// §4.5) backed by authority.
func NewServer(addr string, authority *Authority) *Server {
	s := &Server{Addr: addr, Authority: authority}
	mux := dns.NewServeMux()
	mux.HandleFunc(".", s.serveDNS)

	s.udp = &dns.Server{Addr: addr, Net: "udp", Handler: mux}
	s.tcp = &dns.Server{
		Addr:    addr,
		Net:     "tcp",
		Handler: mux,
		IdleTimeout: func() time.Duration { return tcpIdleTimeout },
	}
	return s
}

// ListenAndServe starts both transports and blocks until ctx is cancelled
// or either listener fails, logging which transport failed.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 2)
	go func() {
		if err := s.udp.ListenAndServe(); err != nil {
			errc <- fmt.Errorf("dnsserver: udp: %w", err)
		}
	}()
	go func() {
		if err := s.tcp.ListenAndServe(); err != nil {
			errc <- fmt.Errorf("dnsserver: tcp: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errc:
		log.Printf("[dnsauthd] transport failed: %v", err)
		_ = s.Shutdown()
		return err
	}
}

// Shutdown gracefully stops both transports.
func (s *Server) Shutdown() error {
	var firstErr error
	if err := s.udp.Shutdown(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.tcp.Shutdown(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// serveDNS answers one query from the authority's current catalog. An
// unloaded catalog answers SERVFAIL; a name outside every served zone
// answers NXDOMAIN with an empty authority section; a missing name inside
// a served zone answers NXDOMAIN with that zone's SOA in the authority
// section (standard negative-caching shape).
func (s *Server) serveDNS(w dns.ResponseWriter, r *dns.Msg) {
	msg := new(dns.Msg)
	msg.SetReply(r)
	msg.Authoritative = true

	defer func() {
		_ = w.WriteMsg(msg)
	}()

	if len(r.Question) != 1 {
		msg.Rcode = dns.RcodeFormatError
		return
	}

	cat := s.Authority.Load()
	if cat == nil {
		msg.Rcode = dns.RcodeServerFailure
		return
	}

	q := r.Question[0]
	zone := zoneFor(cat, q.Name)
	if zone == nil {
		msg.Rcode = dns.RcodeNameError
		return
	}

	qname := dns.Fqdn(q.Name)
	var answers []dns.RR
	nameExists := false
	for _, rr := range zone.Records {
		h := rr.Header()
		if h.Name != qname {
			continue
		}
		nameExists = true
		if h.Rrtype == q.Qtype || q.Qtype == dns.TypeANY {
			answers = append(answers, rr)
		}
	}

	if !nameExists {
		msg.Rcode = dns.RcodeNameError
		if soa := soaOf(zone); soa != nil {
			msg.Ns = append(msg.Ns, soa)
		}
		return
	}

	if len(answers) == 0 {
		// Name exists but not with the queried type: NOERROR/no-data.
		if soa := soaOf(zone); soa != nil {
			msg.Ns = append(msg.Ns, soa)
		}
		return
	}

	msg.Answer = answers
}
