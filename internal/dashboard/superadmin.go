package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"syndeck/internal/api"
	"syndeck/internal/listing"
	"syndeck/internal/models"
	"syndeck/internal/session"
)

// SuperAdmin mirrors the admin dashboard under /super-admin/* and adds
// admin-account management plus the broker approval queue.
type SuperAdmin struct {
	c     *api.Client
	store *session.Store
	lg    *zap.SugaredLogger

	Me       models.Identity
	Tabs     *Tabs
	PageSize int

	Admins         *Collection[models.Admin]
	Boats          *Collection[listing.Record]
	Brokers        *Collection[models.Broker]
	PendingBoats   *Collection[listing.Record]
	PendingBrokers *Collection[models.Broker]
	Logs           *Collection[models.APILog]
}

func NewSuperAdmin(c *api.Client, store *session.Store, lg *zap.SugaredLogger) *SuperAdmin {
	d := &SuperAdmin{
		c:              c,
		store:          store,
		lg:             lg,
		Tabs:           NewTabs(TabOverview),
		PageSize:       10,
		Admins:         &Collection[models.Admin]{},
		Boats:          &Collection[listing.Record]{},
		Brokers:        &Collection[models.Broker]{},
		PendingBoats:   &Collection[listing.Record]{},
		PendingBrokers: &Collection[models.Broker]{},
		Logs:           &Collection[models.APILog]{},
	}
	d.Tabs.Register(TabOverview, d.LoadOverview)
	d.Tabs.Register(TabBoats, d.LoadBoats)
	d.Tabs.Register(TabBrokers, d.LoadBrokers)
	d.Tabs.Register(TabAPIKeys, d.LoadBrokers)
	d.Tabs.Register(TabAdmins, d.LoadAdmins)
	d.Tabs.Register(TabApprovals, d.LoadApprovals)
	d.Tabs.Register(TabLogs, d.LoadLogs)
	return d
}

func (d *SuperAdmin) Init(ctx context.Context) error {
	me, err := session.Guard(ctx, d.c, d.store, session.RoleSuperAdmin)
	if err != nil {
		return err
	}
	d.Me = me
	return d.LoadOverview(ctx)
}

// LoadOverview warms boats, brokers, logs and both pending queues,
// skipping anything already loaded.
func (d *SuperAdmin) LoadOverview(ctx context.Context) error {
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
	if d.PendingBrokers.State() == NotLoaded || d.PendingBoats.State() == NotLoaded {
		if err := d.LoadApprovals(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *SuperAdmin) Refresh(ctx context.Context) error {
	for _, inv := range []func(){
		d.Admins.Invalidate, d.Boats.Invalidate, d.Brokers.Invalidate,
		d.PendingBoats.Invalidate, d.PendingBrokers.Invalidate, d.Logs.Invalidate,
	} {
		inv()
	}
	return d.LoadOverview(ctx)
}

func (d *SuperAdmin) LoadAdmins(ctx context.Context) error {
	gen := d.Admins.Begin()
	var items []models.Admin
	if err := d.c.Get(ctx, "/super-admin/admins", nil, &items); err != nil {
		d.Admins.Fail(gen)
		return err
	}
	d.Admins.Complete(gen, items)
	return nil
}

func (d *SuperAdmin) LoadBoats(ctx context.Context) error {
	gen := d.Boats.Begin()
	q := url.Values{}
	q.Set("page", strconv.Itoa(d.Tabs.Page()))
	q.Set("limit", strconv.Itoa(d.PageSize))
	if s := d.Tabs.Search(); s != "" {
		q.Set("search", s)
	}
	var items []listing.Record
	if err := d.c.Get(ctx, "/super-admin/listings", q, &items); err != nil {
		d.Boats.Fail(gen)
		return err
	}
	d.Boats.Complete(gen, items)
	return nil
}

func (d *SuperAdmin) LoadBrokers(ctx context.Context) error {
	gen := d.Brokers.Begin()
	var items []models.Broker
	if err := d.c.Get(ctx, "/super-admin/brokers", nil, &items); err != nil {
		d.Brokers.Fail(gen)
		return err
	}
	d.Brokers.Complete(gen, items)
	return nil
}

// LoadApprovals fetches both pending queues; a failure in the first
// leaves the second untouched.
func (d *SuperAdmin) LoadApprovals(ctx context.Context) error {
	genB := d.PendingBrokers.Begin()
	var pb []models.Broker
	if err := d.c.Get(ctx, "/super-admin/brokers/pending", nil, &pb); err != nil {
		d.PendingBrokers.Fail(genB)
		return err
	}
	d.PendingBrokers.Complete(genB, pb)

	genV := d.PendingBoats.Begin()
	var pv []listing.Record
	if err := d.c.Get(ctx, "/super-admin/boats/pending", nil, &pv); err != nil {
		d.PendingBoats.Fail(genV)
		return err
	}
	d.PendingBoats.Complete(genV, pv)
	return nil
}

func (d *SuperAdmin) LoadLogs(ctx context.Context) error {
	gen := d.Logs.Begin()
	var items []models.APILog
	if err := d.c.Get(ctx, "/super-admin/api-logs", nil, &items); err != nil {
		d.Logs.Fail(gen)
		return err
	}
	d.Logs.Complete(gen, items)
	return nil
}

func (d *SuperAdmin) CreateBroker(ctx context.Context, name, email, password string) error {
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

func (d *SuperAdmin) CreateAdmin(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return ErrMissingFields
	}
	body := map[string]any{"name": name, "email": email, "password": password, "role_id": int(session.RoleAdmin)}
	if err := d.c.Post(ctx, "/auth/create-admin", body, nil); err != nil {
		d.lg.Errorw("admin create failed", "email", email, "error", err)
		return err
	}
	d.lg.Infow("admin created", "email", email)
	return d.LoadAdmins(ctx)
}

func (d *SuperAdmin) ApproveBroker(ctx context.Context, id int64) error {
	restore, _ := d.PendingBrokers.Remove(func(b models.Broker) bool { return b.ID == id })
	if err := d.c.Post(ctx, fmt.Sprintf("/super-admin/brokers/%d/approve", id), nil, nil); err != nil {
		restore()
		d.lg.Errorw("broker approve failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("broker approved", "id", id)
	return nil
}

func (d *SuperAdmin) RejectBroker(ctx context.Context, id int64) error {
	restore, _ := d.PendingBrokers.Remove(func(b models.Broker) bool { return b.ID == id })
	if err := d.c.Post(ctx, fmt.Sprintf("/super-admin/brokers/%d/reject", id), nil, nil); err != nil {
		restore()
		d.lg.Errorw("broker reject failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("broker rejected", "id", id)
	return nil
}

func (d *SuperAdmin) ApproveBoat(ctx context.Context, id int64) error {
	restore, _ := d.PendingBoats.Remove(func(r listing.Record) bool { return r.ID == id })
	if err := d.c.Post(ctx, fmt.Sprintf("/super-admin/boats/%d/approve", id), nil, nil); err != nil {
		restore()
		d.lg.Errorw("boat approve failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("boat approved", "id", id)
	return nil
}

func (d *SuperAdmin) RejectBoat(ctx context.Context, id int64) error {
	restore, _ := d.PendingBoats.Remove(func(r listing.Record) bool { return r.ID == id })
	if err := d.c.Post(ctx, fmt.Sprintf("/super-admin/boats/%d/reject", id), nil, nil); err != nil {
		restore()
		d.lg.Errorw("boat reject failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("boat rejected", "id", id)
	return nil
}

func (d *SuperAdmin) DeleteAdmin(ctx context.Context, id int64) error {
	restore, _ := d.Admins.Remove(func(a models.Admin) bool { return a.ID == id })
	if err := d.c.Delete(ctx, fmt.Sprintf("/super-admin/users/%d", id), nil); err != nil {
		restore()
		d.lg.Errorw("admin delete failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("admin deleted", "id", id)
	return nil
}

func (d *SuperAdmin) DeleteBroker(ctx context.Context, id int64) error {
	restore, _ := d.Brokers.Remove(func(b models.Broker) bool { return b.ID == id })
	if err := d.c.Delete(ctx, fmt.Sprintf("/super-admin/users/%d", id), nil); err != nil {
		restore()
		d.lg.Errorw("broker delete failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("broker deleted", "id", id)
	return nil
}

func (d *SuperAdmin) DeleteListing(ctx context.Context, id int64) error {
	restore, _ := d.Boats.Remove(func(r listing.Record) bool { return r.ID == id })
	if err := d.c.Delete(ctx, fmt.Sprintf("/super-admin/listing-delete/%d", id), nil); err != nil {
		restore()
		d.lg.Errorw("listing delete failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("listing deleted", "id", id)
	return nil
}
