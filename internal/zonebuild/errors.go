package zonebuild

import "errors"

// ErrMalformedASN is returned when a blocked_asns entry isn't a decimal
// number after stripping its optional "AS" prefix.
var ErrMalformedASN = errors.New("zonebuild: malformed asn")
