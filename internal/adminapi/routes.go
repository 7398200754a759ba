// Package adminapi exposes a small gin HTTP surface for operators: catalog
// status, a verification QR/value renderer, and a live websocket reload
// feed, all read-only views of what dnsserver serves. It also accepts the
// /publish/binary and /publish/cert observations peer auditd instances
// push in; those land in the PublishedStore the next zone rebuild reads,
// so they change the bin/ca records the DNS authority serves.
package adminapi

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/i1is/trustplane/internal/dnsserver"
	"github.com/i1is/trustplane/internal/encoding"
	"github.com/i1is/trustplane/internal/verify"
	"github.com/i1is/trustplane/internal/zonebuild"
)

// Handler holds the dependencies the admin routes need.
type Handler struct {
	authority  *dnsserver.Authority
	hub        *Hub
	verifyHost string
	published  *zonebuild.PublishedStore
}

// NewHandler returns a Handler bound to authority for status queries, hub
// for the live reload feed, and published for the per-host binary/cert
// consensus observations other auditd instances push in (spec §4.2
// "Consensus query" — something has to publish what queries look up).
func NewHandler(authority *dnsserver.Authority, hub *Hub, verifyHost string, published *zonebuild.PublishedStore) *Handler {
	return &Handler{authority: authority, hub: hub, verifyHost: verifyHost, published: published}
}

// publishRatePerMin and publishBurst cap each publishing peer at 240 requests/min (roughly
// one auditd pass worth of binaries+certs every few seconds) with a burst
// of 60, so a single misbehaving node can't starve the admin surface.
const publishRatePerMin = 240
const publishBurst = 60

// SetupRouter builds the gin engine: public status/verify/stream endpoints,
// and a bearer-token-gated, rate-limited group for the publish endpoints a
// peer auditd instance uses to contribute its observations to network
// consensus.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	pub := r.Group("/")
	{
		pub.GET("/status", h.handleStatus)
		pub.GET("/verify/:prefix", h.handleVerify)
		pub.GET("/stream", h.hub.Subscribe)
	}

	limiter := NewRateLimiter(publishRatePerMin, publishBurst)
	protected := r.Group("/publish")
	protected.Use(AuthMiddleware(), limiter.Middleware())
	{
		protected.POST("/binary", h.handlePublishBinary)
		protected.POST("/cert", h.handlePublishCert)
	}

	return r
}

// handlePublishBinary accepts one node's observation of a binary hash,
// incrementing that hash's consensus node count (spec §4.2: network
// consensus is the number of independent nodes reporting the same hash).
func (h *Handler) handlePublishBinary(c *gin.Context) {
	var rec encoding.BinaryRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rec.Hash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hash is required"})
		return
	}
	h.published.AddBinary(rec)
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// handlePublishCert accepts one node's observation of a certificate
// fingerprint, incrementing that fingerprint's consensus node count.
func (h *Handler) handlePublishCert(c *gin.Context) {
	var rec encoding.CertRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rec.Fingerprint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fp is required"})
		return
	}
	h.published.AddCert(rec)
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// handleStatus reports the current serial, per-zone record counts, and the
// last reload time (spec's admin surface, §4.5 expansion).
func (h *Handler) handleStatus(c *gin.Context) {
	cat := h.authority.Load()
	if cat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no catalog loaded yet"})
		return
	}

	zoneCounts := make(map[string]int, len(cat.Zones))
	var serial uint32
	for origin, zone := range cat.Zones {
		zoneCounts[origin] = zone.RecordCount()
		serial = zone.Serial
	}

	c.JSON(http.StatusOK, gin.H{
		"serial":       serial,
		"entryCount":   cat.EntryCount,
		"zoneRecords":  zoneCounts,
		"lastReloadAt": cat.BuiltAt,
	})
}

// handleVerify renders the expected value and a QR code (PNG or ANSI, via
// ?format=) for a digest prefix an operator wants to check by hand.
func (h *Handler) handleVerify(c *gin.Context) {
	prefix := c.Param("prefix")
	digest := c.Query("digest")
	if digest == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "digest query parameter is required"})
		return
	}

	tok := verify.BuildToken(prefix, digest, 0, 0, prefix+".sig", time.Now())
	url := verify.VerificationURL(h.verifyHost, tok)

	if c.Query("format") == "png" {
		png, err := verify.PNG(url, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
		return
	}

	art, err := verify.ANSI(url)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var pngBase64 string
	if png, err := verify.PNG(url, 256); err == nil {
		pngBase64 = base64.StdEncoding.EncodeToString(png)
	}

	c.JSON(http.StatusOK, gin.H{
		"dnsName":         tok.DNSName,
		"expectedValue":   tok.ExpectedValue,
		"expectedTtl":     tok.ExpectedTTL,
		"verificationUrl": url,
		"qrAnsi":          art,
		"qrPngBase64":     pngBase64,
	})
}
