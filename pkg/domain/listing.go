package domain

import (
	"time"

	"github.com/google/uuid"
)

// Media is an image attached to a listing or profile.
type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Seller is the profile that created a listing.
type Seller struct {
	Name string `json:"name"`
}

// Bidder is the profile that placed a bid.
type Bidder struct {
	Name string `json:"name"`
}

// Bid is a monetary offer against a listing. The client never holds an
// authoritative copy — amounts are fresh from the last fetch or transient
// UI state until the next one.
type Bid struct {
	Amount  int       `json:"amount"`
	Bidder  Bidder    `json:"bidder"`
	Created time.Time `json:"created"`
}

// Listing is an auction item. Persisted fields are immutable from the
// client's perspective except via explicit update/delete calls; the bids
// slice reflects whatever the last fetch returned.
type Listing struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Media       []Media   `json:"media"`
	Created     time.Time `json:"created"`
	EndsAt      time.Time `json:"endsAt"`
	Seller      *Seller   `json:"seller,omitempty"`
	Bids        []Bid     `json:"bids,omitempty"`
}

// HighestBid returns the maximum bid amount, or 0 when there are no bids.
// The value is provisional — the remote system is the arbiter.
func (l Listing) HighestBid() int {
	highest := 0
	for _, b := range l.Bids {
		if b.Amount > highest {
			highest = b.Amount
		}
	}
	return highest
}

// Expired reports whether the auction has ended as of now.
func (l Listing) Expired(now time.Time) bool {
	return !l.EndsAt.After(now)
}

// BidsNewestFirst returns the bids sorted by creation time descending,
// without mutating the listing.
func (l Listing) BidsNewestFirst() []Bid {
	bids := append([]Bid(nil), l.Bids...)
	for i := 1; i < len(bids); i++ {
		for j := i; j > 0 && bids[j].Created.After(bids[j-1].Created); j-- {
			bids[j], bids[j-1] = bids[j-1], bids[j]
		}
	}
	return bids
}
