package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"syndeck/internal/api"
	"syndeck/internal/listing"
	"syndeck/internal/session"
)

type brokerBackend struct {
	router *chi.Mux

	meRole         int
	listingCalls   int
	detailCalls    int
	failDeletes    bool
	failListings   bool
	bareIPResponse bool

	submitMethod string
	submitPath   string
	submitFields map[string]string
	submitFiles  []string

	whitelistPath string
}

func newBrokerBackend() *brokerBackend {
	b := &brokerBackend{router: chi.NewRouter(), meRole: 3}
	r := b.router
	r.Get("/api/broker/me", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"user_id":12,"name":"Harbor & Co","email":"sales@harbor.example","role_id":` +
			strconv.Itoa(b.meRole) + `,"api_token":"bk_old","whitelisted_ips":["10.0.0.1"]}`))
	})
	r.Get("/api/broker/listings", func(w http.ResponseWriter, req *http.Request) {
		b.listingCalls++
		if b.failListings {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"id":5,"vessel_name":"Blue Dawn","status":"publish"}]`))
	})
	r.Get("/api/broker/listings/{id}", func(w http.ResponseWriter, req *http.Request) {
		b.detailCalls++
		w.Write([]byte(`{"vessel_name":"Blue Dawn","year":2019,"price_usd":"950000",
			"status":"publish","featured_image":"https://cdn/x/feat.jpg",
			"gallery_urls":["https://cdn/x/1.jpg"]}`))
	})
	capture := func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.submitMethod = req.Method
		b.submitPath = req.URL.Path
		b.submitFields = make(map[string]string)
		for key, vals := range req.MultipartForm.Value {
			b.submitFields[key] = vals[0]
		}
		b.submitFiles = nil
		for key := range req.MultipartForm.File {
			b.submitFiles = append(b.submitFiles, key)
		}
		w.Write([]byte(`{"id":99}`))
	}
	r.Post("/api/broker/listings", capture)
	r.Put("/api/broker/listings/{id}", capture)
	r.Delete("/api/broker/listing-delete/{id}", func(w http.ResponseWriter, req *http.Request) {
		if b.failDeletes {
			http.Error(w, `{"message":"forbidden"}`, http.StatusForbidden)
			return
		}
		w.Write([]byte(`{"deleted":true}`))
	})
	r.Post("/api/broker/regenerate-token", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"token":"bk_new"}`))
	})
	r.Post("/api/broker/ip-whitelist", func(w http.ResponseWriter, req *http.Request) {
		if b.bareIPResponse {
			w.Write([]byte(`{"success":true}`))
			return
		}
		w.Write([]byte(`{"whitelisted_ips":["10.0.0.1","203.0.113.7"]}`))
	})
	r.Delete("/api/broker/ip-whitelist/{ip}", func(w http.ResponseWriter, req *http.Request) {
		b.whitelistPath = req.URL.Path
		w.Write([]byte(`{"whitelisted_ips":["10.0.0.1"]}`))
	})
	return b
}

func newBroker(t *testing.T, b *brokerBackend) (*Broker, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(b.router)
	t.Cleanup(srv.Close)
	store := session.NewStore(filepath.Join(t.TempDir(), "token"))
	if err := store.Set("tok"); err != nil {
		t.Fatal(err)
	}
	c := api.New(srv.URL, store, zap.NewNop().Sugar())
	return NewBroker(c, store, zap.NewNop().Sugar()), store
}

func TestBrokerInitWrongRoleRedirects(t *testing.T) {
	b := newBrokerBackend()
	b.meRole = 2
	d, store := newBroker(t, b)

	err := d.Init(context.Background())
	if !errors.Is(err, session.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if _, ok := store.Token(); ok {
		t.Fatal("token should be cleared on role mismatch")
	}
	if b.listingCalls != 0 {
		t.Fatal("listings fetched despite failed guard")
	}
}

func TestSubmitNewListing(t *testing.T) {
	b := newBrokerBackend()
	d, _ := newBroker(t, b)
	ctx := context.Background()
	if err := d.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	d.Form.VesselName = "Ocean Whisper"
	if err := d.SubmitListing(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if b.submitMethod != http.MethodPost || b.submitPath != "/api/broker/listings" {
		t.Fatalf("submit went to %s %s", b.submitMethod, b.submitPath)
	}
	for key, want := range map[string]string{
		"vessel_name": "Ocean Whisper",
		"title":       "Ocean Whisper",
		"status":      "pending",
		"user_id":     "12",
		"broker_name": "Harbor & Co",
	} {
		if got := b.submitFields[key]; got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if len(b.submitFiles) != 0 {
		t.Fatalf("no file chosen, yet server got %v", b.submitFiles)
	}

	// Success resets the form and lands back on the listings tab,
	// which reloads in full.
	if d.Form.VesselName != "" || d.Form.EditingID != 0 {
		t.Fatalf("form not reset: %+v", d.Form.Core)
	}
	if d.Tabs.Active() != TabMyListings {
		t.Fatalf("active tab = %q", d.Tabs.Active())
	}
	if b.listingCalls != 2 {
		t.Fatalf("listing fetches = %d, want 2", b.listingCalls)
	}
}

func TestEditThenUpdate(t *testing.T) {
	b := newBrokerBackend()
	d, _ := newBroker(t, b)
	ctx := context.Background()
	if err := d.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := d.EditListing(ctx, 5); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if b.detailCalls != 1 {
		t.Fatalf("detail fetches = %d", b.detailCalls)
	}
	if d.Tabs.Active() != TabSubmit {
		t.Fatalf("active tab = %q", d.Tabs.Active())
	}
	if d.Form.EditingID != 5 || d.Form.VesselName != "Blue Dawn" {
		t.Fatalf("form not prefilled: id=%d name=%q", d.Form.EditingID, d.Form.VesselName)
	}
	if name, ok := d.Form.FeaturedPreview(); !ok || name != "https://cdn/x/feat.jpg" {
		t.Fatalf("featured preview = %q, %v", name, ok)
	}

	d.Form.AttachFeaturedImage("new-bow.jpg", strings.NewReader("img"))
	if err := d.SubmitListing(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if b.submitMethod != http.MethodPut || b.submitPath != "/api/broker/listings/5" {
		t.Fatalf("update went to %s %s", b.submitMethod, b.submitPath)
	}
	if b.submitFields["status"] != "pending" {
		t.Fatalf("status = %q, edit must resubmit for review", b.submitFields["status"])
	}
	if len(b.submitFiles) != 1 || b.submitFiles[0] != "featured_image" {
		t.Fatalf("file parts = %v, want only the replaced image", b.submitFiles)
	}
	if d.Form.EditingID != 0 {
		t.Fatal("editing id survived submit")
	}
}

func TestSubmitSucceedsWhenReloadFails(t *testing.T) {
	b := newBrokerBackend()
	d, _ := newBroker(t, b)
	ctx := context.Background()
	if err := d.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	d.Form.VesselName = "Ocean Whisper"
	b.failListings = true
	if err := d.SubmitListing(ctx); err != nil {
		t.Fatalf("accepted submission reported as failed: %v", err)
	}
	if b.submitMethod != http.MethodPost {
		t.Fatalf("submit method = %q", b.submitMethod)
	}
	if d.Form.VesselName != "" {
		t.Fatal("form not reset after accepted submission")
	}
	if d.Tabs.Active() != TabMyListings {
		t.Fatalf("active tab = %q", d.Tabs.Active())
	}
}

func TestSubmitValidationShortCircuits(t *testing.T) {
	b := newBrokerBackend()
	d, _ := newBroker(t, b)
	ctx := context.Background()
	if err := d.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := d.SubmitListing(ctx); !errors.Is(err, listing.ErrVesselNameRequired) {
		t.Fatalf("err = %v", err)
	}
	if b.submitMethod != "" {
		t.Fatal("invalid form reached the network")
	}
}

func TestBrokerDeleteRollsBackOnFailure(t *testing.T) {
	b := newBrokerBackend()
	b.failDeletes = true
	d, _ := newBroker(t, b)
	ctx := context.Background()
	if err := d.LoadListings(ctx); err != nil {
		t.Fatal(err)
	}

	if err := d.DeleteListing(ctx, 5); err == nil {
		t.Fatal("expected failure")
	}
	if d.Listings.Len() != 1 {
		t.Fatalf("failed delete not rolled back: len=%d", d.Listings.Len())
	}
}

func TestRegenerateToken(t *testing.T) {
	b := newBrokerBackend()
	d, _ := newBroker(t, b)
	ctx := context.Background()
	if err := d.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := d.RegenerateToken(ctx); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if d.Me.APIToken != "bk_new" {
		t.Fatalf("api token = %q", d.Me.APIToken)
	}
}

func TestIPWhitelist(t *testing.T) {
	b := newBrokerBackend()
	d, _ := newBroker(t, b)
	ctx := context.Background()
	if err := d.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := d.AddIP(ctx, ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("err = %v, want ErrMissingFields", err)
	}

	if err := d.AddIP(ctx, "203.0.113.7"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(d.Me.WhitelistedIPs) != 2 || d.Me.WhitelistedIPs[1] != "203.0.113.7" {
		t.Fatalf("whitelist = %v", d.Me.WhitelistedIPs)
	}

	if err := d.RemoveIP(ctx, "203.0.113.7"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if b.whitelistPath != "/api/broker/ip-whitelist/203.0.113.7" {
		t.Fatalf("remove path = %q", b.whitelistPath)
	}
	if len(d.Me.WhitelistedIPs) != 1 {
		t.Fatalf("whitelist = %v", d.Me.WhitelistedIPs)
	}
}

func TestBareWhitelistResponseKeepsLocalList(t *testing.T) {
	b := newBrokerBackend()
	b.bareIPResponse = true
	d, _ := newBroker(t, b)
	ctx := context.Background()
	if err := d.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := d.AddIP(ctx, "203.0.113.7"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(d.Me.WhitelistedIPs) != 1 || d.Me.WhitelistedIPs[0] != "10.0.0.1" {
		t.Fatalf("local list clobbered: %v", d.Me.WhitelistedIPs)
	}
}
