// Package dashboard holds the role dashboards' data orchestration:
// which collections load when a tab opens, how overview aggregation
// avoids refetching warm collections, and how mutations reconcile the
// local copies with the server.
package dashboard

import (
	"context"
	"sync"
)

type Tab string

const (
	TabOverview   Tab = "overview"
	TabBoats      Tab = "boats"
	TabBrokers    Tab = "brokers"
	TabAdmins     Tab = "admins"
	TabApprovals  Tab = "approvals"
	TabAPIKeys    Tab = "api-keys"
	TabLogs       Tab = "logs"
	TabMyListings Tab = "my-listings"
	TabSubmit     Tab = "submit"
	TabSecurity   Tab = "security"
	TabAPIDocs    Tab = "api-docs"
)

type Loader func(context.Context) error

// Tabs maps tab ids to loader functions and re-runs the active tab's
// loaders on navigation, pagination and search-text changes. Tabs with
// no registered loader (static views) open without network traffic.
type Tabs struct {
	mu      sync.Mutex
	loaders map[Tab][]Loader
	active  Tab
	page    int
	search  string
}

func NewTabs(initial Tab) *Tabs {
	return &Tabs{
		loaders: make(map[Tab][]Loader),
		active:  initial,
		page:    1,
	}
}

func (t *Tabs) Register(tab Tab, loaders ...Loader) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loaders[tab] = append(t.loaders[tab], loaders...)
}

func (t *Tabs) Active() Tab {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Tabs) Page() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

func (t *Tabs) Search() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.search
}

// Open activates a tab and runs its loaders.
func (t *Tabs) Open(ctx context.Context, tab Tab) error {
	t.mu.Lock()
	t.active = tab
	t.mu.Unlock()
	return t.run(ctx)
}

// SetPage moves pagination and reloads the active tab.
func (t *Tabs) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	t.mu.Lock()
	t.page = page
	t.mu.Unlock()
	return t.run(ctx)
}

// SetSearch updates the search text, rewinds to the first page and
// reloads the active tab.
func (t *Tabs) SetSearch(ctx context.Context, search string) error {
	t.mu.Lock()
	t.search = search
	t.page = 1
	t.mu.Unlock()
	return t.run(ctx)
}

func (t *Tabs) run(ctx context.Context) error {
	t.mu.Lock()
	loaders := append([]Loader(nil), t.loaders[t.active]...)
	t.mu.Unlock()
	for _, load := range loaders {
		if err := load(ctx); err != nil {
			return err
		}
	}
	return nil
}
