package flow

import (
	"context"

	"go.uber.org/zap"

	"github.com/amiranbari/telestore/internal/backend"
	"github.com/amiranbari/telestore/internal/model"
	"github.com/amiranbari/telestore/internal/session"
)

// Catalog is the read-only owned-services list with status tabs and search.
type Catalog struct {
	api  backend.API
	host session.Host
	log  *zap.Logger

	filter   model.StatusFilter
	search   string
	services []model.Service
}

// NewCatalog constructs the list view on the "all" tab.
func NewCatalog(api backend.API, host session.Host, log *zap.Logger) *Catalog {
	return &Catalog{api: api, host: host, log: log, filter: model.FilterAll}
}

// Load fetches the list for the current tab and query.
func (c *Catalog) Load(ctx context.Context) {
	c.services = c.api.GetServices(ctx, c.filter, c.search)
}

// SetFilter switches the status tab and re-fetches.
func (c *Catalog) SetFilter(ctx context.Context, f model.StatusFilter) {
	c.host.Haptic(session.ImpactLight)
	c.filter = f
	c.Load(ctx)
}

// Search re-fetches with the submitted query.
func (c *Catalog) Search(ctx context.Context, query string) {
	c.search = query
	c.Load(ctx)
}

// Filter returns the active status tab.
func (c *Catalog) Filter() model.StatusFilter { return c.filter }

// Services returns the current list.
func (c *Catalog) Services() []model.Service { return c.services }
