package ledger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ankiiin/auction-house-sp2/internal/session"
	"github.com/ankiiin/auction-house-sp2/pkg/client"
)

// Ledger reconciles the locally cached credit balance against bidding.
// The remote profile-credits endpoint is the ground truth; the cache is a
// display placeholder between refreshes.
type Ledger struct {
	store *session.Store
	api   *client.Client
}

// New creates a ledger over the given session store and API client.
func New(store *session.Store, api *client.Client) *Ledger {
	return &Ledger{store: store, api: api}
}

// Balance returns the cached credit balance.
func (l *Ledger) Balance() int {
	return l.store.Credits()
}

// ApplyBidCost debits the cached balance for a bid. When amount exceeds the
// balance it returns accepted=false and leaves the balance untouched, no
// matter how many times it is called. The returned balance is optimistic
// and is reconciled against the server on the next Refresh.
func (l *Ledger) ApplyBidCost(amount int) (newBalance int, accepted bool) {
	balance := l.store.Credits()
	if amount > balance {
		return balance, false
	}

	newBalance = balance - amount
	if err := l.store.SetCredits(newBalance); err != nil {
		log.Error().Err(err).Msg("persist debited balance")
	}
	return newBalance, true
}

// Refund restores a prior debit. Compensating action for a bid that was
// debited locally but rejected by the server.
func (l *Ledger) Refund(amount int) int {
	newBalance := l.store.Credits() + amount
	if err := l.store.SetCredits(newBalance); err != nil {
		log.Error().Err(err).Msg("persist refunded balance")
	}
	return newBalance
}

// Refresh fetches the authoritative balance and overwrites the cache
// unconditionally.
func (l *Ledger) Refresh(ctx context.Context) (int, error) {
	user, ok := l.store.CurrentUser()
	if !ok {
		return l.store.Credits(), nil
	}

	credits, err := l.api.GetCredits(ctx, user.Name)
	if err != nil {
		return 0, fmt.Errorf("ledger.Refresh: %w", err)
	}
	if err := l.store.SetCredits(credits); err != nil {
		return 0, fmt.Errorf("ledger.Refresh: %w", err)
	}
	return credits, nil
}
