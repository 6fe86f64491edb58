package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

// fakeLister serves canned pages and records which pages were requested.
type fakeLister struct {
	pages      map[int][]domain.Listing
	totalCount int
	fresh      map[uuid.UUID]domain.Listing
	getErr     error

	requested []int
}

func (f *fakeLister) ListListings(_ context.Context, page, limit int) (client.ListingPage, error) {
	f.requested = append(f.requested, page)
	items := f.pages[page]
	maxPage := (f.totalCount + limit - 1) / limit
	return client.ListingPage{
		Items:      items,
		TotalCount: f.totalCount,
		LastPage:   page >= maxPage,
	}, nil
}

func (f *fakeLister) GetListing(_ context.Context, id uuid.UUID) (domain.Listing, error) {
	if f.getErr != nil {
		return domain.Listing{}, f.getErr
	}
	if l, ok := f.fresh[id]; ok {
		return l, nil
	}
	return domain.Listing{}, errors.New("not found")
}

func listing(title, seller string, endsIn time.Duration, bids ...int) domain.Listing {
	l := domain.Listing{
		ID:      uuid.New(),
		Title:   title,
		Created: time.Now(),
		EndsAt:  time.Now().Add(endsIn),
		Seller:  &domain.Seller{Name: seller},
	}
	for _, amount := range bids {
		l.Bids = append(l.Bids, domain.Bid{Amount: amount})
	}
	return l
}

func noViewer() string { return "" }

func TestLoadPage_FiltersExpiredAndSelf(t *testing.T) {
	active := listing("vase", "bob", time.Hour)
	expired := listing("old clock", "bob", -time.Hour)
	mine := listing("my lamp", "ann", time.Hour)

	api := &fakeLister{
		pages:      map[int][]domain.Listing{1: {active, expired, mine}},
		totalCount: 3,
	}
	ctrl := New(api, func() string { return "ann" }, 18)

	page, err := ctrl.LoadPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "vase", page.Cards[0].Listing.Title)
	assert.True(t, page.LastPage)
}

func TestLoadPage_DeduplicatesAcrossPages(t *testing.T) {
	shared := listing("vase", "bob", time.Hour)
	other := listing("lamp", "bob", time.Hour)

	api := &fakeLister{
		pages: map[int][]domain.Listing{
			1: {shared},
			2: {shared, other}, // server shifted items between fetches
		},
		totalCount: 3,
	}
	ctrl := New(api, noViewer, 1)

	first, err := ctrl.LoadPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, first.Cards, 1)

	second, err := ctrl.LoadPage(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, second.Cards, 1, "the already rendered listing is dropped")
	assert.Equal(t, "lamp", second.Cards[0].Listing.Title)
}

func TestLoadPage_AdvancesPastFullyFilteredPage(t *testing.T) {
	mine1 := listing("mine 1", "ann", time.Hour)
	mine2 := listing("mine 2", "ann", time.Hour)
	foreign := listing("vase", "bob", time.Hour)

	api := &fakeLister{
		pages: map[int][]domain.Listing{
			1: {mine1, mine2},
			2: {foreign},
		},
		totalCount: 3,
	}
	ctrl := New(api, func() string { return "ann" }, 2)

	page, err := ctrl.LoadPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "vase", page.Cards[0].Listing.Title)
	assert.Equal(t, []int{1, 2}, api.requested, "page 1 was all self-listings, so page 2 was fetched")
	assert.Equal(t, 3, page.NextPage)
}

func TestLoadPage_EmptyFeed(t *testing.T) {
	api := &fakeLister{pages: map[int][]domain.Listing{}, totalCount: 0}
	ctrl := New(api, noViewer, 18)

	page, err := ctrl.LoadPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, page.Cards)
	assert.True(t, page.LastPage)
}

func TestLoadPage_ResolvesHighestBids(t *testing.T) {
	stale := listing("vase", "bob", time.Hour, 50)
	fresh := stale
	fresh.Bids = append([]domain.Bid(nil), fresh.Bids...)
	fresh.Bids = append(fresh.Bids, domain.Bid{Amount: 90})

	api := &fakeLister{
		pages:      map[int][]domain.Listing{1: {stale}},
		totalCount: 1,
		fresh:      map[uuid.UUID]domain.Listing{stale.ID: fresh},
	}
	ctrl := New(api, noViewer, 18)

	page, err := ctrl.LoadPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, 90, page.Cards[0].Highest, "the highest bid comes from the fresh fetch")
}

func TestLoadPage_FallsBackToEmbeddedBids(t *testing.T) {
	l := listing("vase", "bob", time.Hour, 60)
	api := &fakeLister{
		pages:      map[int][]domain.Listing{1: {l}},
		totalCount: 1,
		getErr:     errors.New("lookup down"),
	}
	ctrl := New(api, noViewer, 18)

	page, err := ctrl.LoadPage(context.Background(), 1)
	require.NoError(t, err, "a failed bid lookup never fails the page")
	require.Len(t, page.Cards, 1)
	assert.Equal(t, 60, page.Cards[0].Highest)
}

func TestSingleFlight(t *testing.T) {
	ctrl := New(&fakeLister{}, noViewer, 18)

	require.True(t, ctrl.TryBegin())
	assert.False(t, ctrl.TryBegin(), "a second trigger while loading is dropped")
	ctrl.End()
	assert.True(t, ctrl.TryBegin())
}

func TestReset_ForgetsSeen(t *testing.T) {
	l := listing("vase", "bob", time.Hour)
	api := &fakeLister{
		pages:      map[int][]domain.Listing{1: {l}},
		totalCount: 1,
	}
	ctrl := New(api, noViewer, 18)

	first, err := ctrl.LoadPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, first.Cards, 1)

	ctrl.Reset()

	again, err := ctrl.LoadPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, again.Cards, 1, "after Reset the listing renders again")
}
