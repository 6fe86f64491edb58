package bidding

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

// Placer is the slice of the API client the workflow depends on.
type Placer interface {
	PlaceBid(ctx context.Context, id uuid.UUID, amount int) (domain.Listing, error)
}

// CreditLedger gates and debits the cached balance.
type CreditLedger interface {
	ApplyBidCost(amount int) (newBalance int, accepted bool)
	Refund(amount int) int
}

// State of the bid modal.
type State int

const (
	Closed State = iota
	Open
)

// Result of an accepted bid.
type Result struct {
	NewHighest int
	NewBalance int
}

// Workflow is the bid modal state machine:
// Closed -> Open(listing, currentHighest) -> validate -> submit -> Closed.
// A rejected submission leaves the workflow Open so the caller can show the
// error inline and keep the form interactive.
type Workflow struct {
	api    Placer
	ledger CreditLedger

	state          State
	listingID      uuid.UUID
	currentHighest int
}

// New creates a closed workflow.
func New(api Placer, ledger CreditLedger) *Workflow {
	return &Workflow{api: api, ledger: ledger}
}

// Open seeds the modal with the listing and the highest bid on display.
func (w *Workflow) Open(listingID uuid.UUID, currentHighest int) {
	w.state = Open
	w.listingID = listingID
	w.currentHighest = currentHighest
}

// Close discards modal state. No partial bid is retained.
func (w *Workflow) Close() {
	w.state = Closed
	w.listingID = uuid.Nil
	w.currentHighest = 0
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	return w.state
}

// CurrentHighest returns the highest bid the modal was seeded with.
func (w *Workflow) CurrentHighest() int {
	return w.currentHighest
}

// ListingID returns the listing the modal is open for.
func (w *Workflow) ListingID() uuid.UUID {
	return w.listingID
}

// Submit validates and places a bid. Validation failures and insufficient
// credits return a ValidationError without touching the network, and the
// workflow stays Open. A server rejection refunds the optimistic debit and
// also stays Open. On success the workflow closes and the result carries
// the new highest bid and the debited balance.
func (w *Workflow) Submit(ctx context.Context, amount int) (Result, error) {
	if w.state != Open {
		return Result{}, fmt.Errorf("bidding.Submit: no bid in progress")
	}

	if amount <= 0 {
		return Result{}, &domain.ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	if amount <= w.currentHighest {
		return Result{}, &domain.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("must exceed the current highest bid of %d", w.currentHighest),
		}
	}

	newBalance, accepted := w.ledger.ApplyBidCost(amount)
	if !accepted {
		return Result{}, &domain.ValidationError{Field: "amount", Reason: "insufficient credits"}
	}

	listing, err := w.api.PlaceBid(ctx, w.listingID, amount)
	if err != nil {
		w.ledger.Refund(amount)
		return Result{}, fmt.Errorf("bidding.Submit: %w", err)
	}

	highest := listing.HighestBid()
	if amount > highest {
		// The response did not embed bids; trust the accepted amount until
		// the next fetch.
		highest = amount
	}

	log.Info().Str("listing", w.listingID.String()).Int("amount", amount).Msg("bid placed")
	w.Close()
	return Result{NewHighest: highest, NewBalance: newBalance}, nil
}
