package encoding

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// minuteLayout is the signal record's native, minute-precision UTC form.
const minuteLayout = "2006-01-02T15:04Z"

// SignalData is the decoded payload of the near-zero-TTL version probe
// published at _v.<zone>.
type SignalData struct {
	Serial  uint64
	Entries uint32
	Updated time.Time
}

// ToTXT renders the signal payload as "serial=<u64>;entries=<u32>;updated=<minute-precision UTC>".
func (s SignalData) ToTXT() string {
	return fmt.Sprintf("serial=%d;entries=%d;updated=%s",
		s.Serial, s.Entries, s.Updated.UTC().Format(minuteLayout))
}

// SignalFromTXT parses a signal TXT payload. The updated field accepts
// either the minute-precision form this package emits or full RFC-3339,
// since older or foreign publishers may use the longer form.
func SignalFromTXT(txt string) (SignalData, error) {
	fields := parseKV(txt)
	serial, err := strconv.ParseUint(fields["serial"], 10, 64)
	if err != nil {
		return SignalData{}, fmt.Errorf("%w: serial", ErrMissingField)
	}
	entries, err := strconv.ParseUint(fields["entries"], 10, 32)
	if err != nil {
		return SignalData{}, fmt.Errorf("%w: entries", ErrMissingField)
	}
	updatedStr, ok := fields["updated"]
	if !ok {
		return SignalData{}, fmt.Errorf("%w: updated", ErrMissingField)
	}
	updated, perr := time.Parse(minuteLayout, updatedStr)
	if perr != nil {
		updated, perr = time.Parse(time.RFC3339, updatedStr)
		if perr != nil {
			return SignalData{}, fmt.Errorf("encoding: unparseable signal timestamp %q: %w", updatedStr, perr)
		}
	}
	return SignalData{
		Serial:  serial,
		Entries: uint32(entries),
		Updated: updated.UTC(),
	}, nil
}

// SignalQueryName returns "_v.<zone>".
func SignalQueryName(zone string) string {
	return "_v." + strings.TrimSuffix(zone, ".") + "."
}
