package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Auction represents a listing open for competitive bidding. This core only
// reads the starting price (the implicit floor while no bid exists); the
// listing subsystem owns the rest of the lifecycle.
type Auction struct {
	AuctionID     int64            `json:"auction_id"`
	SellerID      string           `json:"seller_id"`
	Title         string           `json:"title"`
	StartingPrice decimal.Decimal  `json:"starting_price"`
	ReservePrice  *decimal.Decimal `json:"reserve_price,omitempty"`
}

// Bid is an accepted, immutable bid record. Amounts are fixed-point decimals,
// never floats. AcceptedAt is assigned by the arbiter at acceptance time and
// is non-decreasing within an auction.
type Bid struct {
	BidID      string          `json:"bid_id"`
	AuctionID  int64           `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	Amount     decimal.Decimal `json:"amount"`
	AcceptedAt time.Time       `json:"accepted_at"`
}

// Outcome is the transient result of a bid proposal. Either Accepted is true
// and Bid holds the committed bid, or Reason holds the rejection sentinel.
type Outcome struct {
	Accepted bool
	Bid      Bid
	Reason   error
}

// Reject builds a rejected outcome carrying the given reason.
func Reject(reason error) Outcome {
	return Outcome{Reason: reason}
}
