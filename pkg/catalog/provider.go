package catalog

import (
	"context"
	"time"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
	"github.com/mpapenbr/clash-manager-go/pkg/utils/cache"
	"github.com/mpapenbr/clash-manager-go/pkg/utils/cache/loadercache"
)

// there is only one catalog per store
const catalogKey = "catalog"

type (
	ProviderOption func(*Provider)
	Provider       struct {
		store store.Store
		ttl   time.Duration
		l     *log.Logger
		cache cache.Cache[string, Catalog]
	}
)

// WithTTL sets how long a loaded catalog is used before it is read again.
// Zero keeps it until Refresh is called.
func WithTTL(ttl time.Duration) ProviderOption {
	return func(p *Provider) {
		p.ttl = ttl
	}
}

func WithLogger(l *log.Logger) ProviderOption {
	return func(p *Provider) {
		p.l = l
	}
}

func NewProvider(s store.Store, opts ...ProviderOption) *Provider {
	ret := &Provider{
		store: s,
		ttl:   5 * time.Minute,
		l:     log.Default().Named("catalog"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.cache = loadercache.New(
		loadercache.WithLoader[string, Catalog](ret.load),
		loadercache.WithExpiration[string, Catalog](ret.ttl),
		loadercache.WithLogger[string, Catalog](ret.l),
	)
	return ret
}

func (p *Provider) load(ctx context.Context, _ string) (*Catalog, error) {
	c, err := Load(ctx, p.store)
	if err != nil {
		return nil, err
	}
	p.l.Debug("catalog loaded",
		log.Int("drivers", len(c.Drivers)),
		log.Int("series", len(c.Series)),
		log.Int("tracks", len(c.Tracks)))
	return c, nil
}

// Get returns the current catalog.
func (p *Provider) Get(ctx context.Context) (*Catalog, error) {
	return p.cache.Get(ctx, catalogKey)
}

// Refresh drops the current catalog and loads it again.
// Call it after reference documents were changed.
func (p *Provider) Refresh(ctx context.Context) (*Catalog, error) {
	p.cache.InvalidateAll(ctx)
	return p.Get(ctx)
}
