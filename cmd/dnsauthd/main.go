// Command dnsauthd serves the authoritative intelligence and defense zones
// over UDP and TCP, rebuilding them from the defense state file on an
// interval, and exposes an admin HTTP surface for status and verification.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/i1is/trustplane/internal/adminapi"
	"github.com/i1is/trustplane/internal/config"
	"github.com/i1is/trustplane/internal/dnsserver"
	"github.com/i1is/trustplane/internal/telemetry"
	"github.com/i1is/trustplane/internal/zonebuild"
)

var logger = telemetry.New("dnsauthd")

func main() {
	root := &cobra.Command{
		Use:   "dnsauthd",
		Short: "Authoritative DNS runtime serving blocklist, reputation, geo, ASN and signal zones",
		RunE:  run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.LoadDNSAuthorityConfig()
	ctx := cmd.Context()

	authority := dnsserver.NewAuthority()
	hub := adminapi.NewHub()
	go hub.Run()

	published := zonebuild.NewPublishedStore()

	zoneCfg := zonebuild.ZoneConfig{
		BlocklistZone:  cfg.ZoneOrigins.Blocklist,
		ReputationZone: cfg.ZoneOrigins.Reputation,
		GeoZone:        cfg.ZoneOrigins.Geo,
		ASNZone:        cfg.ZoneOrigins.ASN,
		SignalZone:     cfg.ZoneOrigins.Signal,
		BinZone:        cfg.ZoneOrigins.Bin,
		CAZone:         cfg.ZoneOrigins.CA,
	}

	reloader := &dnsserver.Reloader{
		Authority: authority,
		Interval:  cfg.ReloadInterval,
		Build: func(serial uint32, now time.Time) (*zonebuild.Catalog, error) {
			snap, err := zonebuild.LoadDefenseState(cfg.DefenseStatePath)
			if err != nil {
				return nil, err
			}
			return zonebuild.BuildZones(zoneCfg, snap, published, serial, now)
		},
		OnReload: func(cat *zonebuild.Catalog) {
			event := adminapi.ReloadEvent{EntryCount: cat.EntryCount, ReloadedAt: cat.BuiltAt}
			event.ZoneRecords = make(map[string]int, len(cat.Zones))
			for origin, zone := range cat.Zones {
				event.ZoneRecords[origin] = zone.RecordCount()
				event.Serial = zone.Serial
			}
			if payload, err := json.Marshal(event); err == nil {
				hub.Broadcast(payload)
			}
			logger.Printf("catalog reloaded: %d entries across %d zones", cat.EntryCount, len(cat.Zones))
		},
	}
	go reloader.Run(ctx)

	server := dnsserver.NewServer(cfg.ListenAddr, authority)
	go func() {
		if err := server.ListenAndServe(ctx); err != nil {
			logger.Printf("dns server stopped: %v", err)
		}
	}()

	handler := adminapi.NewHandler(authority, hub, cfg.VerifyHost, published)
	router := adminapi.SetupRouter(handler)
	logger.Printf("admin surface on %s, dns on %s", cfg.AdminAddr, cfg.ListenAddr)
	return runAdminServer(ctx, router, cfg.AdminAddr)
}

func runAdminServer(ctx context.Context, router interface{ Run(...string) error }, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- router.Run(addr) }()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		return err
	}
}
