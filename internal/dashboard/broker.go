package dashboard

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"syndeck/internal/api"
	"syndeck/internal/listing"
	"syndeck/internal/models"
	"syndeck/internal/session"
)

// Broker drives the broker portal: the broker's own listings, the
// submission form, and API credential self-service.
type Broker struct {
	c     *api.Client
	store *session.Store
	lg    *zap.SugaredLogger

	Me       models.Identity
	Tabs     *Tabs
	Listings *Collection[listing.Record]
	Form     *listing.Form
}

func NewBroker(c *api.Client, store *session.Store, lg *zap.SugaredLogger) *Broker {
	d := &Broker{
		c:        c,
		store:    store,
		lg:       lg,
		Tabs:     NewTabs(TabMyListings),
		Listings: &Collection[listing.Record]{},
		Form:     listing.NewForm(),
	}
	d.Tabs.Register(TabMyListings, d.LoadListings)
	return d
}

func (d *Broker) Init(ctx context.Context) error {
	me, err := session.Guard(ctx, d.c, d.store, session.RoleBroker)
	if err != nil {
		return err
	}
	d.Me = me
	return d.LoadListings(ctx)
}

func (d *Broker) LoadListings(ctx context.Context) error {
	gen := d.Listings.Begin()
	var items []listing.Record
	if err := d.c.Get(ctx, "/broker/listings", nil, &items); err != nil {
		d.Listings.Fail(gen)
		return err
	}
	d.Listings.Complete(gen, items)
	return nil
}

// NewListing resets the form to the empty template and opens the
// submission tab.
func (d *Broker) NewListing(ctx context.Context) error {
	d.Form.Reset()
	return d.Tabs.Open(ctx, TabSubmit)
}

// EditListing fetches one record, reconciles it into the form and
// opens the submission tab prefilled.
func (d *Broker) EditListing(ctx context.Context, id int64) error {
	var rec listing.Record
	if err := d.c.Get(ctx, fmt.Sprintf("/broker/listings/%d", id), nil, &rec); err != nil {
		return err
	}
	rec.ID = id
	d.Form.LoadRecord(rec)
	return d.Tabs.Open(ctx, TabSubmit)
}

// SubmitListing sends the whole form as one multipart payload —
// create on a fresh form, update when an editing id is set. On success
// the form resets, the listing tab reopens and the collection reloads
// in full so server-assigned fields come through.
func (d *Broker) SubmitListing(ctx context.Context) error {
	if err := d.Form.Validate(); err != nil {
		return err
	}
	meta := listing.BrokerMeta{UserID: d.Me.UserID, Name: d.Me.Name, Email: d.Me.Email}
	payload := d.Form.EncodeMultipart(meta)
	vessel := string(d.Form.VesselName)

	var err error
	if id := d.Form.EditingID; id != 0 {
		err = d.c.PutMultipart(ctx, fmt.Sprintf("/broker/listings/%d", id), payload, nil)
	} else {
		err = d.c.PostMultipart(ctx, "/broker/listings", payload, nil)
	}
	if err != nil {
		d.lg.Errorw("listing submit failed", "vessel_name", vessel, "error", err)
		return err
	}
	d.lg.Infow("listing submitted", "vessel_name", vessel)

	d.Form.Reset()
	// The submission is already accepted at this point; a failed
	// refetch must not read as a failed submit.
	if err := d.Tabs.Open(ctx, TabMyListings); err != nil {
		d.lg.Errorw("listing reload after submit failed", "error", err)
	}
	return nil
}

func (d *Broker) DeleteListing(ctx context.Context, id int64) error {
	restore, _ := d.Listings.Remove(func(r listing.Record) bool { return r.ID == id })
	if err := d.c.Delete(ctx, fmt.Sprintf("/broker/listing-delete/%d", id), nil); err != nil {
		restore()
		d.lg.Errorw("listing delete failed, rolled back", "id", id, "error", err)
		return err
	}
	d.lg.Infow("listing deleted", "id", id)
	return nil
}

// RegenerateToken replaces the broker's API token and updates the held
// identity with the server's new value.
func (d *Broker) RegenerateToken(ctx context.Context) error {
	var resp struct {
		Token string `json:"token"`
	}
	if err := d.c.Post(ctx, "/broker/regenerate-token", nil, &resp); err != nil {
		d.lg.Errorw("token regeneration failed", "error", err)
		return err
	}
	d.Me.APIToken = resp.Token
	d.lg.Infow("api token regenerated")
	return nil
}

func (d *Broker) AddIP(ctx context.Context, ip string) error {
	if ip == "" {
		return ErrMissingFields
	}
	var resp struct {
		// Pointer so a response without the field leaves the local
		// list alone instead of wiping it.
		WhitelistedIPs *[]string `json:"whitelisted_ips"`
	}
	if err := d.c.Post(ctx, "/broker/ip-whitelist", map[string]string{"ip": ip}, &resp); err != nil {
		d.lg.Errorw("ip whitelist add failed", "ip", ip, "error", err)
		return err
	}
	if resp.WhitelistedIPs != nil {
		d.Me.WhitelistedIPs = *resp.WhitelistedIPs
	}
	d.lg.Infow("ip whitelisted", "ip", ip)
	return nil
}

func (d *Broker) RemoveIP(ctx context.Context, ip string) error {
	var resp struct {
		WhitelistedIPs *[]string `json:"whitelisted_ips"`
	}
	if err := d.c.Delete(ctx, "/broker/ip-whitelist/"+url.PathEscape(ip), &resp); err != nil {
		d.lg.Errorw("ip whitelist remove failed", "ip", ip, "error", err)
		return err
	}
	if resp.WhitelistedIPs != nil {
		d.Me.WhitelistedIPs = *resp.WhitelistedIPs
	}
	d.lg.Infow("ip removed from whitelist", "ip", ip)
	return nil
}
