package dnsserver

import (
	"net"
	"testing"
	"time"

	"github.com/i1is/trustplane/internal/zonebuild"
	"github.com/i1is/trustplane/pkg/models"
	"github.com/miekg/dns"
)

func buildTestAuthority(t *testing.T) *Authority {
	t.Helper()
	cfg := zonebuild.ZoneConfig{
		BlocklistZone:  "bl.i1.is.",
		ReputationZone: "rep.i1.is.",
		GeoZone:        "geo.i1.is.",
		ASNZone:        "asn.i1.is.",
		SignalZone:     "sig.i1.is.",
	}
	snap := models.DefenseSnapshot{BlockedIPs: []string{"1.2.3.4"}}
	cat, err := zonebuild.BuildZones(cfg, snap, nil, 1, time.Unix(1_700_000_000, 0))
	if err != nil {
		t.Fatal(err)
	}
	a := NewAuthority()
	a.Store(cat)
	return a
}

func answerFor(s *Server, name string, qtype uint16) *dns.Msg {
	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(name), qtype)
	rw := &fakeResponseWriter{}
	s.serveDNS(rw, req)
	return rw.msg
}

type fakeResponseWriter struct {
	msg *dns.Msg
}

func (f *fakeResponseWriter) WriteMsg(m *dns.Msg) error    { f.msg = m; return nil }
func (f *fakeResponseWriter) Write(b []byte) (int, error)  { return len(b), nil }
func (f *fakeResponseWriter) Close() error                 { return nil }
func (f *fakeResponseWriter) TsigStatus() error            { return nil }
func (f *fakeResponseWriter) TsigTimersOnly(bool)          {}
func (f *fakeResponseWriter) Hijack()                      {}
func (f *fakeResponseWriter) LocalAddr() net.Addr          { return nil }
func (f *fakeResponseWriter) RemoteAddr() net.Addr         { return nil }

func TestServeDNSExistingRecord(t *testing.T) {
	s := &Server{Authority: buildTestAuthority(t)}
	msg := answerFor(s, "4.3.2.1.bl.i1.is.", dns.TypeA)
	if msg.Rcode != dns.RcodeSuccess || len(msg.Answer) != 1 {
		t.Fatalf("expected one A answer, got rcode=%d answers=%d", msg.Rcode, len(msg.Answer))
	}
}

func TestServeDNSNameOutsideCatalogIsNXDOMAIN(t *testing.T) {
	s := &Server{Authority: buildTestAuthority(t)}
	msg := answerFor(s, "nowhere.example.com.", dns.TypeA)
	if msg.Rcode != dns.RcodeNameError {
		t.Fatalf("expected NXDOMAIN, got %d", msg.Rcode)
	}
}

func TestServeDNSNameExistsWrongTypeIsNoData(t *testing.T) {
	s := &Server{Authority: buildTestAuthority(t)}
	msg := answerFor(s, "4.3.2.1.bl.i1.is.", dns.TypeAAAA)
	if msg.Rcode != dns.RcodeSuccess || len(msg.Answer) != 0 {
		t.Fatalf("expected NOERROR/no-data, got rcode=%d answers=%d", msg.Rcode, len(msg.Answer))
	}
}

func TestServeDNSUnloadedCatalogIsServfail(t *testing.T) {
	s := &Server{Authority: NewAuthority()}
	msg := answerFor(s, "anything.", dns.TypeA)
	if msg.Rcode != dns.RcodeServerFailure {
		t.Fatalf("expected SERVFAIL for unloaded catalog, got %d", msg.Rcode)
	}
}
