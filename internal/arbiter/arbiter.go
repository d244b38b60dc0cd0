package arbiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"auction-live/internal/auctionerrors"
	"auction-live/internal/ledger"
	"auction-live/internal/models"
	"auction-live/utils"
)

// DefaultProposalTimeout bounds how long a proposal may wait for its
// auction's serialization slot before failing with ErrProposalTimeout.
const DefaultProposalTimeout = 5 * time.Second

// Broadcaster receives accepted bids in acceptance order. It is invoked while
// the auction's serialization slot is still held, which is what makes fan-out
// order equal acceptance order; implementations must use non-blocking sends so
// the critical section stays bounded.
type Broadcaster interface {
	BroadcastAccepted(auctionID int64, bid models.Bid)
}

// slot is the serialization unit for a single auction. The semaphore admits
// one proposal at a time; lastAccepted is only touched while holding it.
type slot struct {
	sem          chan struct{}
	lastAccepted time.Time
}

// Arbiter is the sole authority deciding bid acceptance. One slot exists per
// auction id, created lazily and never torn down; proposals for the same
// auction serialize on the slot while unrelated auctions proceed in parallel.
type Arbiter struct {
	ledger      ledger.BidLedger
	broadcaster Broadcaster
	timeout     time.Duration

	mu    sync.Mutex
	slots map[int64]*slot
}

// Option configures an Arbiter
type Option func(*Arbiter)

// WithProposalTimeout overrides the slot acquisition timeout
func WithProposalTimeout(d time.Duration) Option {
	return func(a *Arbiter) { a.timeout = d }
}

// WithBroadcaster sets the fan-out sink for accepted bids
func WithBroadcaster(b Broadcaster) Option {
	return func(a *Arbiter) { a.broadcaster = b }
}

// New creates an Arbiter backed by the given ledger
func New(l ledger.BidLedger, opts ...Option) *Arbiter {
	a := &Arbiter{
		ledger:  l,
		timeout: DefaultProposalTimeout,
		slots:   make(map[int64]*slot),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// slotFor returns the serialization slot for an auction, creating it lazily.
// Exactly one slot ever exists per auction id.
func (a *Arbiter) slotFor(auctionID int64) *slot {
	a.mu.Lock()
	defer a.mu.Unlock()

	sl, ok := a.slots[auctionID]
	if !ok {
		sl = &slot{sem: make(chan struct{}, 1)}
		a.slots[auctionID] = sl
	}
	return sl
}

// acquire takes the slot or gives up when the context ends or the timeout
// elapses. Timeout is surfaced as ErrProposalTimeout so callers can retry.
func (a *Arbiter) acquire(ctx context.Context, sl *slot) error {
	timer := time.NewTimer(a.timeout)
	defer timer.Stop()

	select {
	case sl.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return auctionerrors.ErrProposalTimeout
	}
}

// Propose decides whether the bid is accepted. The read-compare-write against
// the ledger runs under the auction's slot, so no two proposals for the same
// auction can interleave their read-of-highest and write-of-new-bid.
//
// Validation failures and too-low amounts come back as rejected Outcomes;
// errors are reserved for unknown auctions, caller-contract violations,
// arbitration timeouts, and ledger failures.
func (a *Arbiter) Propose(ctx context.Context, auctionID int64, bidderID string, amount decimal.Decimal) (models.Outcome, error) {
	if bidderID == "" {
		return models.Outcome{}, fmt.Errorf("arbiter: %w - missing bidder id", auctionerrors.ErrInvalidBid)
	}
	if amount.Sign() <= 0 {
		return models.Reject(auctionerrors.ErrInvalidAmount), nil
	}

	auction, err := a.ledger.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("arbiter: failed to load auction %d: %w", auctionID, err)
	}

	sl := a.slotFor(auctionID)
	if err := a.acquire(ctx, sl); err != nil {
		return models.Outcome{}, fmt.Errorf("arbiter: auction %d: %w", auctionID, err)
	}
	defer func() { <-sl.sem }()

	floor := auction.StartingPrice
	noBids := false
	highest, err := a.ledger.HighestBid(ctx, auctionID)
	switch {
	case err == nil:
		floor = highest.Amount
	case errors.Is(err, auctionerrors.ErrNoBids):
		noBids = true
	default:
		return models.Outcome{}, fmt.Errorf("arbiter: failed to read highest bid for auction %d: %w", auctionID, err)
	}

	if !amount.GreaterThan(floor) {
		if noBids {
			return models.Reject(auctionerrors.ErrBelowStartingPrice), nil
		}
		return models.Reject(auctionerrors.ErrBidTooLow), nil
	}

	acceptedAt := time.Now().UTC()
	if acceptedAt.Before(sl.lastAccepted) {
		acceptedAt = sl.lastAccepted
	}

	bid := models.Bid{
		BidID:      utils.GenerateID(),
		AuctionID:  auctionID,
		BidderID:   bidderID,
		Amount:     amount,
		AcceptedAt: acceptedAt,
	}

	committed, err := a.ledger.Append(ctx, bid)
	if err != nil {
		// the bid did not happen; the next HighestBid read reflects the
		// pre-failure state
		return models.Outcome{}, fmt.Errorf("arbiter: failed to append bid for auction %d: %w", auctionID, err)
	}
	sl.lastAccepted = acceptedAt

	utils.Info("arbiter: bid accepted", map[string]any{
		"auction_id": auctionID,
		"bid_id":     committed.BidID,
		"bidder_id":  bidderID,
		"amount":     amount.String(),
	})

	// publish only after the append durably succeeded, still inside the slot
	if a.broadcaster != nil {
		a.broadcaster.BroadcastAccepted(auctionID, committed)
	}

	return models.Outcome{Accepted: true, Bid: committed}, nil
}
