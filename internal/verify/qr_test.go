package verify

import (
	"strings"
	"testing"
)

func TestPNGProducesNonEmptyImage(t *testing.T) {
	png, err := PNG("https://signal.example.com/verify?n=abc", 256)
	if err != nil {
		t.Fatal(err)
	}
	if len(png) == 0 {
		t.Fatalf("expected non-empty PNG bytes")
	}
	// PNG magic number.
	if png[0] != 0x89 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Fatalf("output does not start with the PNG signature")
	}
}

func TestANSIProducesRenderableBlock(t *testing.T) {
	art, err := ANSI("https://signal.example.com/verify?n=abc")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(art, "█") && !strings.Contains(art, "▀") && !strings.Contains(art, "▄") {
		t.Fatalf("expected at least one block character in ANSI art")
	}
	if !strings.Contains(art, "\n") {
		t.Fatalf("expected multi-line output")
	}
}
