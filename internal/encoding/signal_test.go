package encoding

import (
	"testing"
	"time"
)

func TestSignalRoundTrip(t *testing.T) {
	s := SignalData{
		Serial:  2026072901,
		Entries: 8,
		Updated: time.Date(2026, 7, 29, 12, 34, 0, 0, time.UTC),
	}
	txt := s.ToTXT()
	got, err := SignalFromTXT(txt)
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Fatalf("round trip mismatch: want %+v, got %+v", s, got)
	}
}

func TestSignalFromTXTAcceptsRFC3339(t *testing.T) {
	txt := "serial=1;entries=0;updated=2026-07-29T12:34:56Z"
	got, err := SignalFromTXT(txt)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 7, 29, 12, 34, 56, 0, time.UTC)
	if !got.Updated.Equal(want) {
		t.Fatalf("want %v, got %v", want, got.Updated)
	}
}

func TestSignalFromTXTMissingField(t *testing.T) {
	if _, err := SignalFromTXT("serial=1;entries=0"); err == nil {
		t.Fatalf("expected error for missing updated field")
	}
}

func TestSignalQueryName(t *testing.T) {
	if got := SignalQueryName("sig.i1.is."); got != "_v.sig.i1.is." {
		t.Fatalf("got %q", got)
	}
}
