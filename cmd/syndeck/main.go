package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"syndeck/internal/api"
	"syndeck/internal/catalog"
	"syndeck/internal/config"
	"syndeck/internal/dashboard"
	"syndeck/internal/listing"
	"syndeck/internal/logger"
	"syndeck/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("SYNDECK_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	lg := logger.New(cfg.LogLevel, cfg.LogFile)
	defer lg.Sync()

	store := session.NewStore(cfg.TokenPath)
	client := api.New(cfg.APIBaseURL, store, lg)
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "login":
		email, password := cfg.LoginEmail, cfg.LoginPassword
		if len(os.Args) >= 4 {
			email, password = os.Args[2], os.Args[3]
		}
		me, err := session.Login(ctx, client, store, email, password)
		if err != nil {
			lg.Fatalw("login failed", "error", err)
		}
		lg.Infow("logged in", "name", me.Name, "role", session.Role(me.RoleID).String())
	case "logout":
		if err := store.Clear(); err != nil {
			lg.Fatalw("logout failed", "error", err)
		}
		lg.Infow("logged out")
	case "register":
		if len(os.Args) < 5 {
			usage()
		}
		if err := session.Register(ctx, client, os.Args[2], os.Args[3], os.Args[4]); err != nil {
			lg.Fatalw("registration failed", "error", err)
		}
		lg.Infow("registered; account pending approval")
	case "overview":
		if len(os.Args) < 3 {
			usage()
		}
		runOverview(ctx, client, store, lg, os.Args[2])
	case "submit":
		if len(os.Args) < 3 {
			usage()
		}
		runSubmit(ctx, client, store, lg, os.Args[2])
	case "browse":
		records, err := catalog.Search(ctx, client, catalog.Query{Limit: 20})
		if err != nil {
			lg.Fatalw("browse failed", "error", err)
		}
		for _, r := range records {
			fmt.Printf("%6d  %-30s %-10s %s\n", r.ID, r.VesselName, r.Type, r.PriceUSD)
		}
	default:
		usage()
	}
}

func runOverview(ctx context.Context, client *api.Client, store *session.Store, lg *zap.SugaredLogger, role string) {
	switch role {
	case "super-admin":
		d := dashboard.NewSuperAdmin(client, store, lg)
		if err := d.Init(ctx); err != nil {
			lg.Fatalw("dashboard init failed", "error", err)
		}
		fmt.Printf("listings=%d brokers=%d pending_boats=%d pending_brokers=%d logs=%d\n",
			d.Boats.Len(), d.Brokers.Len(), d.PendingBoats.Len(), d.PendingBrokers.Len(), d.Logs.Len())
	case "admin":
		d := dashboard.NewAdmin(client, store, lg)
		if err := d.Init(ctx); err != nil {
			lg.Fatalw("dashboard init failed", "error", err)
		}
		fmt.Printf("listings=%d brokers=%d logs=%d\n", d.Boats.Len(), d.Brokers.Len(), d.Logs.Len())
	case "broker":
		d := dashboard.NewBroker(client, store, lg)
		if err := d.Init(ctx); err != nil {
			lg.Fatalw("dashboard init failed", "error", err)
		}
		fmt.Printf("my listings=%d status=%s\n", d.Listings.Len(), d.Me.Status)
	default:
		usage()
	}
}

func runSubmit(ctx context.Context, client *api.Client, store *session.Store, lg *zap.SugaredLogger, path string) {
	d := dashboard.NewBroker(client, store, lg)
	if err := d.Init(ctx); err != nil {
		lg.Fatalw("dashboard init failed", "error", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		lg.Fatalw("read listing file failed", "error", err)
	}
	var rec listing.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		lg.Fatalw("parse listing file failed", "error", err)
	}
	d.Form.LoadRecord(rec)
	if err := d.SubmitListing(ctx); err != nil {
		lg.Fatalw("submit failed", "error", err)
	}
	lg.Infow("listing submitted", "vessel", rec.VesselName)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  syndeck login [email password]
  syndeck logout
  syndeck register <name> <email> <password>
  syndeck overview <super-admin|admin|broker>
  syndeck submit <listing.json>
  syndeck browse`)
	os.Exit(2)
}
