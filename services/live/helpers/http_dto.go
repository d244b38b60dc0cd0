package helpers

import "github.com/shopspring/decimal"

// Request/Response DTOs
type ProposeBidRequest struct {
	BidderID string          `json:"bidder_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

type BidResponse struct {
	BidID      string          `json:"bid_id"`
	AuctionID  int64           `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	Amount     decimal.Decimal `json:"amount"`
	AcceptedAt string          `json:"accepted_at"`
}

type WatchersResponse struct {
	AuctionID int64 `json:"auction_id"`
	Watchers  int   `json:"watchers"`
}

// Inbound websocket frame
type ClientFrame struct {
	Action    string          `json:"action"`
	AuctionID int64           `json:"auction_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Websocket actions accepted from clients
const (
	ActionJoinRoom   = "join_room"
	ActionLeaveRoom  = "leave_room"
	ActionPlaceBid   = "place_bid"
	ActionCurrentBid = "current_bid"
)
