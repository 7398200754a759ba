package encoding

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

const cborPrefix = "cbor:"

// BinaryRecord is the decoded form of a bin.<root> TXT record.
type BinaryRecord struct {
	Hash   string            `cbor:"hash" json:"hash"`
	Name   string            `cbor:"name" json:"name"`
	Size   int64             `cbor:"size" json:"size"`
	Trust  float64           `cbor:"trust" json:"trust"`
	Nodes  int               `cbor:"nodes" json:"nodes"`
	Extras map[string]string `cbor:"extras" json:"extras,omitempty"`
}

var binaryKnownKeys = []string{"hash", "name", "size", "trust", "nodes"}

// EncodeBinaryTXT encodes r as the preferred k=v form, falling back to the
// CBOR overflow form when the preferred encoding exceeds 250 bytes.
func EncodeBinaryTXT(r BinaryRecord) (string, error) {
	known := map[string]string{
		"hash":  r.Hash,
		"name":  r.Name,
		"size":  strconv.FormatInt(r.Size, 10),
		"trust": strconv.FormatFloat(r.Trust, 'f', -1, 64),
		"nodes": strconv.Itoa(r.Nodes),
	}
	preferred := buildKV(binaryKnownKeys, known, r.Extras)
	if len(preferred) <= maxPreferredBytes {
		return preferred, nil
	}
	data, err := cbor.Marshal(r)
	if err != nil {
		return "", &ErrBadCBOR{Op: "marshal binary record", Err: err}
	}
	return cborPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeBinaryTXT is the inverse of EncodeBinaryTXT. Missing keys decode to
// their zero value; unknown keys land in Extras.
func DecodeBinaryTXT(s string) (BinaryRecord, error) {
	if idx := strings.Index(s, cborPrefix); idx >= 0 {
		data, err := base64.StdEncoding.DecodeString(s[idx+len(cborPrefix):])
		if err != nil {
			return BinaryRecord{}, &ErrBadCBOR{Op: "base64 decode binary record", Err: err}
		}
		var r BinaryRecord
		if err := cbor.Unmarshal(data, &r); err != nil {
			return BinaryRecord{}, &ErrBadCBOR{Op: "unmarshal binary record", Err: err}
		}
		return r, nil
	}
	fields := parseKV(s)
	known, extras := splitKnownExtras(fields, binaryKnownKeys)
	size, _ := strconv.ParseInt(known["size"], 10, 64)
	trust, _ := strconv.ParseFloat(known["trust"], 64)
	nodes, _ := strconv.Atoi(known["nodes"])
	return BinaryRecord{
		Hash:   known["hash"],
		Name:   known["name"],
		Size:   size,
		Trust:  trust,
		Nodes:  nodes,
		Extras: extras,
	}, nil
}

// CertRecord is the decoded form of a ca.<root> TXT record.
type CertRecord struct {
	Fingerprint string            `cbor:"fp" json:"fp"`
	Issuer      string            `cbor:"issuer" json:"issuer"`
	Expiry      string            `cbor:"exp" json:"exp"`
	Nodes       int               `cbor:"nodes" json:"nodes"`
	Extras      map[string]string `cbor:"extras" json:"extras,omitempty"`
}

var certKnownKeys = []string{"fp", "issuer", "exp", "nodes"}

// EncodeCertTXT encodes r as the preferred k=v form, falling back to CBOR
// when the preferred encoding exceeds 250 bytes.
func EncodeCertTXT(r CertRecord) (string, error) {
	known := map[string]string{
		"fp":     r.Fingerprint,
		"issuer": r.Issuer,
		"exp":    r.Expiry,
		"nodes":  strconv.Itoa(r.Nodes),
	}
	preferred := buildKV(certKnownKeys, known, r.Extras)
	if len(preferred) <= maxPreferredBytes {
		return preferred, nil
	}
	data, err := cbor.Marshal(r)
	if err != nil {
		return "", &ErrBadCBOR{Op: "marshal cert record", Err: err}
	}
	return cborPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeCertTXT is the inverse of EncodeCertTXT.
func DecodeCertTXT(s string) (CertRecord, error) {
	if idx := strings.Index(s, cborPrefix); idx >= 0 {
		data, err := base64.StdEncoding.DecodeString(s[idx+len(cborPrefix):])
		if err != nil {
			return CertRecord{}, &ErrBadCBOR{Op: "base64 decode cert record", Err: err}
		}
		var r CertRecord
		if err := cbor.Unmarshal(data, &r); err != nil {
			return CertRecord{}, &ErrBadCBOR{Op: "unmarshal cert record", Err: err}
		}
		return r, nil
	}
	fields := parseKV(s)
	known, extras := splitKnownExtras(fields, certKnownKeys)
	nodes, _ := strconv.Atoi(known["nodes"])
	return CertRecord{
		Fingerprint: known["fp"],
		Issuer:      known["issuer"],
		Expiry:      known["exp"],
		Nodes:       nodes,
		Extras:      extras,
	}, nil
}

// ReputationRecord is the decoded form of a rep.<root> TXT record.
type ReputationRecord struct {
	CountryCode string            `cbor:"cc"`
	ASN         string            `cbor:"asn"`
	Org         string            `cbor:"org"`
	Ports       string            `cbor:"ports"`
	Threat      string            `cbor:"threat"`
	Pattern     string            `cbor:"pattern"`
	Hits        int               `cbor:"hits"`
	Extras      map[string]string `cbor:"extras" json:"extras,omitempty"`
}

var reputationKnownKeys = []string{"cc", "asn", "org", "ports", "threat", "pattern", "hits"}

// EncodeReputationTXT encodes r as the preferred k=v form, falling back to
// CBOR when the preferred encoding exceeds 250 bytes.
func EncodeReputationTXT(r ReputationRecord) (string, error) {
	known := map[string]string{
		"cc":      r.CountryCode,
		"asn":     r.ASN,
		"org":     r.Org,
		"ports":   r.Ports,
		"threat":  r.Threat,
		"pattern": r.Pattern,
		"hits":    strconv.Itoa(r.Hits),
	}
	preferred := buildKV(reputationKnownKeys, known, r.Extras)
	if len(preferred) <= maxPreferredBytes {
		return preferred, nil
	}
	data, err := cbor.Marshal(r)
	if err != nil {
		return "", &ErrBadCBOR{Op: "marshal reputation record", Err: err}
	}
	return cborPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeReputationTXT is the inverse of EncodeReputationTXT.
func DecodeReputationTXT(s string) (ReputationRecord, error) {
	if idx := strings.Index(s, cborPrefix); idx >= 0 {
		data, err := base64.StdEncoding.DecodeString(s[idx+len(cborPrefix):])
		if err != nil {
			return ReputationRecord{}, &ErrBadCBOR{Op: "base64 decode reputation record", Err: err}
		}
		var r ReputationRecord
		if err := cbor.Unmarshal(data, &r); err != nil {
			return ReputationRecord{}, &ErrBadCBOR{Op: "unmarshal reputation record", Err: err}
		}
		return r, nil
	}
	fields := parseKV(s)
	known, extras := splitKnownExtras(fields, reputationKnownKeys)
	hits, _ := strconv.Atoi(known["hits"])
	return ReputationRecord{
		CountryCode: known["cc"],
		ASN:         known["asn"],
		Org:         known["org"],
		Ports:       known["ports"],
		Threat:      known["threat"],
		Pattern:     known["pattern"],
		Hits:        hits,
		Extras:      extras,
	}, nil
}
