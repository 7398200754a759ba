// Package audit discovers binaries, processes and root certificates on the
// host, correlates them, and scores each binary and certificate for trust.
package audit

import "errors"

// ErrNotExecutable is returned (and downgraded to a skip) when a discovered
// file has no execute bit set.
var ErrNotExecutable = errors.New("audit: file is not executable")

// ErrMalformedPEM is returned (and downgraded to a skip) for a certificate
// store entry that holds no PEM block. ErrMalformedX509 names the
// malformed-X.509 case; parsePEMCerts logs and skips such blocks itself and
// does not return it.
var (
	ErrMalformedPEM  = errors.New("audit: malformed PEM container")
	ErrMalformedX509 = errors.New("audit: malformed X.509 certificate")
)
