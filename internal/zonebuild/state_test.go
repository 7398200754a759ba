package zonebuild

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefenseStateIgnoresUnknownFieldsAndDefaultsMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defense.json")
	const body = `{
		"blocked_ips": ["1.2.3.4"],
		"totally_unknown_field": "ignored",
		"whitelisted_ips": ["9.9.9.9"]
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := LoadDefenseState(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.BlockedIPs) != 1 || snap.BlockedIPs[0] != "1.2.3.4" {
		t.Fatalf("BlockedIPs = %v", snap.BlockedIPs)
	}
	if len(snap.BlockedCountries) != 0 {
		t.Fatalf("expected missing blocked_countries to default to empty, got %v", snap.BlockedCountries)
	}
	if len(snap.WhitelistedIPs) != 1 || snap.WhitelistedIPs[0] != "9.9.9.9" {
		t.Fatalf("WhitelistedIPs = %v", snap.WhitelistedIPs)
	}
}
