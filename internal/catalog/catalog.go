// Package catalog is the unauthenticated browse surface backing the
// marketing site's listing pages.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"syndeck/internal/api"
	"syndeck/internal/listing"
)

// Query filters a public listing search. Zero values are omitted from
// the request.
type Query struct {
	Type      string
	Location  string
	MinPrice  int
	MaxPrice  int
	MinLength int
	MaxLength int
	Featured  bool
	Page      int
	Limit     int
}

func (q Query) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("type", q.Type)
	set("location", q.Location)
	if q.MinPrice > 0 {
		v.Set("minPrice", strconv.Itoa(q.MinPrice))
	}
	if q.MaxPrice > 0 {
		v.Set("maxPrice", strconv.Itoa(q.MaxPrice))
	}
	if q.MinLength > 0 {
		v.Set("minLength", strconv.Itoa(q.MinLength))
	}
	if q.MaxLength > 0 {
		v.Set("maxLength", strconv.Itoa(q.MaxLength))
	}
	if q.Featured {
		v.Set("featured", "true")
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Search fetches public listings. The endpoint has returned both a
// bare array and a {data: [...]} envelope over time; both decode.
func Search(ctx context.Context, c *api.Client, q Query) ([]listing.Record, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, "/public/listings", q.values(), &raw); err != nil {
		return nil, err
	}
	var records []listing.Record
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}
	var envelope struct {
		Data []listing.Record `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// ErrNotFound reports a listing the backend refused to serve; the
// wrapped message is the server's.
var ErrNotFound = errors.New("listing not found")

// Get fetches one public listing. The endpoint wraps its payload in a
// {success, data, message} envelope and signals failure in-band.
func Get(ctx context.Context, c *api.Client, id int64) (listing.Record, error) {
	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := c.Get(ctx, fmt.Sprintf("/public/listings/%d", id), nil, &envelope); err != nil {
		return listing.Record{}, err
	}
	if !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = "failed to load listing"
		}
		return listing.Record{}, fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	var rec listing.Record
	if err := json.Unmarshal(envelope.Data, &rec); err != nil {
		return listing.Record{}, err
	}
	return rec, nil
}
