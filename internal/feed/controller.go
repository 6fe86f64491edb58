package feed

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

// Lister is the slice of the API client the feed depends on.
type Lister interface {
	ListListings(ctx context.Context, page, limit int) (client.ListingPage, error)
	GetListing(ctx context.Context, id uuid.UUID) (domain.Listing, error)
}

// Card is a feed entry ready to render: the listing plus its freshly
// resolved highest bid.
type Card struct {
	Listing domain.Listing
	Highest int
}

// Page is the result of one LoadPage call. NextPage is the page number the
// next trigger should request; LastPage marks the terminal state.
type Page struct {
	Cards    []Card
	NextPage int
	LastPage bool
}

// Controller drives the paginated public feed: fetch, filter, resolve
// highest bids, append. Expired listings and the viewer's own listings
// never appear.
type Controller struct {
	api      Lister
	viewer   func() string // current user name, empty when logged out
	pageSize int

	loading atomic.Bool

	mu   sync.Mutex
	seen map[uuid.UUID]struct{}
}

// New creates a feed controller. viewer supplies the current user's name so
// self-listings can be excluded; it may return the empty string.
func New(api Lister, viewer func() string, pageSize int) *Controller {
	return &Controller{
		api:      api,
		viewer:   viewer,
		pageSize: pageSize,
		seen:     make(map[uuid.UUID]struct{}),
	}
}

// TryBegin claims the single-flight load slot. A trigger while a load is in
// flight gets false and is dropped, not queued.
func (c *Controller) TryBegin() bool {
	return c.loading.CompareAndSwap(false, true)
}

// End releases the load slot.
func (c *Controller) End() {
	c.loading.Store(false)
}

// Reset forgets which listing ids have been rendered. Call before reloading
// the feed from page 1.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = make(map[uuid.UUID]struct{})
}

// LoadPage fetches one page of active foreign listings. When a raw page
// survives filtering with zero entries, the controller advances to the next
// page instead of surfacing an empty gap, bounded by the page count derived
// from totalCount so it always terminates.
func (c *Controller) LoadPage(ctx context.Context, page int) (Page, error) {
	for {
		raw, err := c.api.ListListings(ctx, page, c.pageSize)
		if err != nil {
			return Page{}, fmt.Errorf("feed.LoadPage: %w", err)
		}

		maxPage := (raw.TotalCount + c.pageSize - 1) / c.pageSize
		last := raw.LastPage || len(raw.Items) == 0 || page >= maxPage

		kept := c.filter(raw.Items)
		if len(kept) == 0 && len(raw.Items) > 0 && !last {
			page++
			continue
		}

		cards, err := c.resolveHighestBids(ctx, kept)
		if err != nil {
			return Page{}, fmt.Errorf("feed.LoadPage: %w", err)
		}

		c.markSeen(kept)
		log.Debug().Int("page", page).Int("raw", len(raw.Items)).Int("kept", len(kept)).Msg("feed page loaded")
		return Page{Cards: cards, NextPage: page + 1, LastPage: last}, nil
	}
}

// filter drops expired listings, the viewer's own listings and ids already
// rendered this session, then orders by creation time descending.
func (c *Controller) filter(items []domain.Listing) []domain.Listing {
	now := time.Now()
	self := c.viewer()

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]domain.Listing, 0, len(items))
	for _, l := range items {
		if l.Expired(now) {
			continue
		}
		if self != "" && l.Seller != nil && l.Seller.Name == self {
			continue
		}
		if _, dup := c.seen[l.ID]; dup {
			continue
		}
		kept = append(kept, l)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Created.After(kept[j].Created)
	})
	return kept
}

// resolveHighestBids re-fetches each listing with bids embedded so the
// rendered highest bid is at most one fetch cycle old. Lookups run
// concurrently but all resolve before the page is returned; a failed lookup
// falls back to the bids already embedded in the page response.
func (c *Controller) resolveHighestBids(ctx context.Context, items []domain.Listing) ([]Card, error) {
	cards := make([]Card, len(items))

	g, ctx := errgroup.WithContext(ctx)
	for i, l := range items {
		g.Go(func() error {
			fresh, err := c.api.GetListing(ctx, l.ID)
			if err != nil {
				log.Warn().Err(err).Str("listing", l.ID.String()).Msg("highest bid lookup failed")
				cards[i] = Card{Listing: l, Highest: l.HighestBid()}
				return nil
			}
			cards[i] = Card{Listing: l, Highest: fresh.HighestBid()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Controller) markSeen(items []domain.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range items {
		c.seen[l.ID] = struct{}{}
	}
}
