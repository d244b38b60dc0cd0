package ledger

import (
	"context"
	"fmt"
	"sync"

	"auction-live/internal/auctionerrors"
	"auction-live/internal/models"
)

// MemoryLedger is a concurrency-safe in-memory implementation of BidLedger.
// Bids are stored per auction in acceptance order, so the highest bid is
// always the last element.
type MemoryLedger struct {
	mu       sync.RWMutex
	auctions map[int64]models.Auction
	bids     map[int64][]models.Bid // key: auctionID -> bids in acceptance order
}

// NewMemoryLedger creates a new in-memory ledger instance
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		auctions: make(map[int64]models.Auction),
		bids:     make(map[int64][]models.Bid),
	}
}

// AddAuction registers an auction so bids against it can be accepted.
func (l *MemoryLedger) AddAuction(auction models.Auction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.auctions[auction.AuctionID] = auction
}

// GetAuction returns the auction record for the given id
func (l *MemoryLedger) GetAuction(_ context.Context, auctionID int64) (models.Auction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	auction, ok := l.auctions[auctionID]
	if !ok {
		return models.Auction{}, fmt.Errorf("get auction %d: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// HighestBid returns the highest accepted bid for an auction
func (l *MemoryLedger) HighestBid(_ context.Context, auctionID int64) (models.Bid, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bids := l.bids[auctionID]
	if len(bids) == 0 {
		return models.Bid{}, fmt.Errorf("highest bid for auction %d: %w", auctionID, auctionerrors.ErrNoBids)
	}
	return bids[len(bids)-1], nil
}

// BidsForAuction returns all accepted bids for an auction in acceptance order
func (l *MemoryLedger) BidsForAuction(_ context.Context, auctionID int64) ([]models.Bid, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("bids for auction %d: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return append([]models.Bid(nil), l.bids[auctionID]...), nil
}

// Append stores an accepted bid. Appends that do not strictly increase the
// auction's highest amount are refused with ErrStaleAppend.
func (l *MemoryLedger) Append(_ context.Context, bid models.Bid) (models.Bid, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.auctions[bid.AuctionID]; !ok {
		return models.Bid{}, fmt.Errorf("append bid for auction %d: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
	}

	bids := l.bids[bid.AuctionID]
	if len(bids) > 0 {
		highest := bids[len(bids)-1]
		if !bid.Amount.GreaterThan(highest.Amount) {
			return models.Bid{}, fmt.Errorf("append bid %s for auction %d (amount %s, highest %s): %w",
				bid.BidID, bid.AuctionID, bid.Amount, highest.Amount, auctionerrors.ErrStaleAppend)
		}
	}

	l.bids[bid.AuctionID] = append(bids, bid)
	return bid, nil
}
