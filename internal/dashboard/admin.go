package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"syndeck/internal/api"
	"syndeck/internal/listing"
	"syndeck/internal/models"
	"syndeck/internal/session"
)

// ErrMissingFields is a client-side validation failure; no request
// leaves the process when it fires.
var ErrMissingFields = errors.New("all fields are required")

// Admin drives the admin dashboard: listing moderation, broker
// management and the API log view under /admin/*.
type Admin struct {
	c     *api.Client
	store *session.Store
	lg    *zap.SugaredLogger

	Me       models.Identity
	Tabs     *Tabs
	PageSize int

	Boats        *Collection[listing.Record]
	Brokers      *Collection[models.Broker]
	PendingBoats *Collection[listing.Record]
	Logs         *Collection[models.APILog]
}

func NewAdmin(c *api.Client, store *session.Store, lg *zap.SugaredLogger) *Admin {
	d := &Admin{
		c:            c,
		store:        store,
		lg:           lg,
		Tabs:         NewTabs(TabOverview),
		PageSize:     10,
		Boats:        &Collection[listing.Record]{},
		Brokers:      &Collection[models.Broker]{},
		PendingBoats: &Collection[listing.Record]{},
		Logs:         &Collection[models.APILog]{},
	}
	d.Tabs.Register(TabOverview, d.LoadOverview)
	d.Tabs.Register(TabBoats, d.LoadBoats)
	d.Tabs.Register(TabBrokers, d.LoadBrokers)
	d.Tabs.Register(TabAPIKeys, d.LoadBrokers)
	d.Tabs.Register(TabApprovals, d.LoadPendingBoats)
	d.Tabs.Register(TabLogs, d.LoadLogs)
	return d
}

// Init guards the session and performs the initial overview load. Runs
// once per dashboard lifetime; nothing renders before it returns.
func (d *Admin) Init(ctx context.Context) error {
	me, err := session.Guard(ctx, d.c, d.store, session.RoleAdmin)
	if err != nil {
		return err
	}
	d.Me = me
	return d.LoadOverview(ctx)
}

// LoadOverview warms the collections the overview cards aggregate,
// fetching only those never loaded so revisiting overview after other
// tabs stays quiet. Staleness is accepted until Refresh.
func (d *Admin) LoadOverview(ctx context.Context) error {
	if d.Boats.State() == NotLoaded {
		if err := d.LoadBoats(ctx); err != nil {
			return err
		}
	}
	if d.Brokers.State() == NotLoaded {
		if err := d.LoadBrokers(ctx); err != nil {
			return err
		}
	}
	if d.Logs.State() == NotLoaded {
		if err := d.LoadLogs(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Refresh invalidates every collection and reruns the overview pass.
func (d *Admin) Refresh(ctx context.Context) error {
	d.Boats.Invalidate()
	d.Brokers.Invalidate()
	d.PendingBoats.Invalidate()
	d.Logs.Invalidate()
	return d.LoadOverview(ctx)
}

func (d *Admin) LoadBoats(ctx context.Context) error {
	gen := d.Boats.Begin()
	q := url.Values{}
	q.Set("page", strconv.Itoa(d.Tabs.Page()))
	q.Set("limit", strconv.Itoa(d.PageSize))
	if s := d.Tabs.Search(); s != "" {
		q.Set("search", s)
	}
	var items []listing.Record
	if err := d.c.Get(ctx, "/admin/listings", q, &items); err != nil {
		d.Boats.Fail(gen)
		return err
	}
	d.Boats.Complete(gen, items)
	return nil
}

func (d *Admin) LoadBrokers(ctx context.Context) error {
	gen := d.Brokers.Begin()
	var items []models.Broker
	if err := d.c.Get(ctx, "/admin/brokers", nil, &items); err != nil {
		d.Brokers.Fail(gen)
		return err
	}
	d.Brokers.Complete(gen, items)
	return nil
}

func (d *Admin) LoadPendingBoats(ctx context.Context) error {
	gen := d.PendingBoats.Begin()
	var items []listing.Record
	if err := d.c.Get(ctx, "/admin/boats/pending", nil, &items); err != nil {
		d.PendingBoats.Fail(gen)
		return err
	}
	d.PendingBoats.Complete(gen, items)
	return nil
}

func (d *Admin) LoadLogs(ctx context.Context) error {
	gen := d.Logs.Begin()
	var items []models.APILog
	if err := d.c.Get(ctx, "/admin/api-logs", nil, &items); err != nil {
		d.Logs.Fail(gen)
		return err
	}
	d.Logs.Complete(gen, items)
	return nil
}

// CreateBroker provisions a broker account and refetches the broker
// collection so server-assigned fields (id, api_token) come through.
func (d *Admin) CreateBroker(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return ErrMissingFields
	}
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := d.c.Post(ctx, "/auth/create-boat-manager", body, nil); err != nil {
		d.lg.Errorw("broker create failed", "email", email, "error", err)
		return err
	}
	d.lg.Infow("broker created", "email", email)
	return d.LoadBrokers(ctx)
}

// DeleteBroker removes the broker locally first and rolls back if the
// server refuses. Deleting an id that is already gone is a no-op.
func (d *Admin) DeleteBroker(ctx context.Context, id int64) error {
	restore, _ := d.Brokers.Remove(func(b models.Broker) bool { return b.ID == id })
	if err := d.c.Delete(ctx, fmt.Sprintf("/admin/users/%d", id), nil); err != nil {
		restore()
		d.lg.Errorw("broker delete failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("broker deleted", "id", id)
	return nil
}

func (d *Admin) ApproveBoat(ctx context.Context, id int64) error {
	restore, _ := d.PendingBoats.Remove(func(r listing.Record) bool { return r.ID == id })
	if err := d.c.Post(ctx, fmt.Sprintf("/admin/boats/%d/approve", id), nil, nil); err != nil {
		restore()
		d.lg.Errorw("boat approve failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("boat approved", "id", id)
	return nil
}

func (d *Admin) RejectBoat(ctx context.Context, id int64) error {
	restore, _ := d.PendingBoats.Remove(func(r listing.Record) bool { return r.ID == id })
	if err := d.c.Post(ctx, fmt.Sprintf("/admin/boats/%d/reject", id), nil, nil); err != nil {
		restore()
		d.lg.Errorw("boat reject failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("boat rejected", "id", id)
	return nil
}

// ToggleFeatured flips exactly one listing's featured flag in place
// and tells the server the new value.
func (d *Admin) ToggleFeatured(ctx context.Context, id int64) error {
	var next bool
	restore, ok := d.Boats.Update(
		func(r listing.Record) bool { return r.ID == id },
		func(r *listing.Record) {
			r.IsFeatured = !r.IsFeatured
			next = bool(r.IsFeatured)
		},
	)
	if !ok {
		return nil
	}
	body := map[string]bool{"is_featured": next}
	if err := d.c.Patch(ctx, fmt.Sprintf("/admin/vessels/%d/feature", id), body, nil); err != nil {
		restore()
		d.lg.Errorw("feature toggle failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("listing feature toggled", "id", id, "is_featured", next)
	return nil
}

func (d *Admin) DeleteListing(ctx context.Context, id int64) error {
	restore, _ := d.Boats.Remove(func(r listing.Record) bool { return r.ID == id })
	if err := d.c.Delete(ctx, fmt.Sprintf("/admin/listing-delete/%d", id), nil); err != nil {
		restore()
		d.lg.Errorw("listing delete failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("listing deleted", "id", id)
	return nil
}
