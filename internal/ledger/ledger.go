package ledger

import (
	"context"

	"auction-live/internal/models"
)

// BidLedger is the durable, append-only store of accepted bids. The arbiter is
// the sole writer for a given auction; implementations do not need to
// re-validate ordering, but they refuse a non-increasing append as a fatal
// invariant violation (auctionerrors.ErrStaleAppend).
type BidLedger interface {
	// GetAuction returns the auction record, or ErrAuctionNotFound.
	GetAuction(ctx context.Context, auctionID int64) (models.Auction, error)
	// HighestBid returns the accepted bid with the greatest amount for the
	// auction, or ErrNoBids when none exists. Ties cannot occur because
	// acceptance enforces strict inequality.
	HighestBid(ctx context.Context, auctionID int64) (models.Bid, error)
	// BidsForAuction returns all accepted bids in acceptance order.
	BidsForAuction(ctx context.Context, auctionID int64) ([]models.Bid, error)
	// Append durably stores a bid already decided to be accepted and returns
	// the committed record. A failed append means the bid did not happen.
	Append(ctx context.Context, bid models.Bid) (models.Bid, error)
}
