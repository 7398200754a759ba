// Package encoding implements the wire formats shared by the audit engine
// and the zone builder: reverse-IPv4 DNSBL labels, fingerprint-to-label
// derivation, the hybrid k=v/CBOR TXT format, and the signal record.
package encoding

import "errors"

// ErrMalformedIPv4 is returned by BuildQueryName and ParseQueryName when the
// input isn't a valid dotted-quad IPv4 address.
var ErrMalformedIPv4 = errors.New("encoding: malformed IPv4 address")

// ErrShortHash is returned when a hash or fingerprint shorter than 12 hex
// characters is handed to a label derivation function. Per spec §9 this is
// a hard rejection, not a silent truncation.
var ErrShortHash = errors.New("encoding: hash shorter than 12 hex characters")

// ErrMissingField is returned by TXT decoders when a key required for the
// record kind is absent from the payload.
var ErrMissingField = errors.New("encoding: required field missing")

// ErrBadCBOR wraps a failure to marshal or unmarshal the CBOR overflow form.
type ErrBadCBOR struct {
	Op  string
	Err error
}

func (e *ErrBadCBOR) Error() string {
	return "encoding: cbor " + e.Op + ": " + e.Err.Error()
}

func (e *ErrBadCBOR) Unwrap() error { return e.Err }
