package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"auction-live/internal/auctionerrors"
	"auction-live/internal/ledger"
	"auction-live/internal/models"
	"auction-live/internal/room"
	"auction-live/utils"
)

// Outbound event types
const (
	EventNewBid      = "new_bid"
	EventBidRejected = "bid_rejected"
	EventCurrentBid  = "current_bid"
	EventError       = "error"
)

// Event is the envelope delivered to websocket clients
type Event struct {
	Type      string      `json:"type"`
	AuctionID int64       `json:"auction_id"`
	Bid       *BidPayload `json:"bid,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}

// BidPayload is the wire form of an accepted bid
type BidPayload struct {
	BidID      string          `json:"bid_id"`
	AuctionID  int64           `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	Amount     decimal.Decimal `json:"amount"`
	AcceptedAt string          `json:"accepted_at"`
}

func bidPayload(bid models.Bid) *BidPayload {
	return &BidPayload{
		BidID:      bid.BidID,
		AuctionID:  bid.AuctionID,
		BidderID:   bid.BidderID,
		Amount:     bid.Amount,
		AcceptedAt: bid.AcceptedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Dispatcher delivers arbiter outcomes to room members and answers
// point-queries for single connections. Accepted bids reach every member of
// the auction's room, proposer included; rejections and current-bid replies
// are private.
type Dispatcher struct {
	rooms  *room.Registry
	ledger ledger.BidLedger
}

// NewDispatcher creates a dispatcher over the given registry and ledger
func NewDispatcher(rooms *room.Registry, l ledger.BidLedger) *Dispatcher {
	return &Dispatcher{rooms: rooms, ledger: l}
}

// BroadcastAccepted fans an accepted bid out to all current room members.
// Implements arbiter.Broadcaster: called in acceptance order, sends are
// non-blocking, and a member whose buffer is full is dropped from every room
// rather than stalling the rest.
func (d *Dispatcher) BroadcastAccepted(auctionID int64, bid models.Bid) {
	payload, err := json.Marshal(Event{
		Type:      EventNewBid,
		AuctionID: auctionID,
		Bid:       bidPayload(bid),
	})
	if err != nil {
		utils.Error("dispatcher: failed to marshal bid event", map[string]any{
			"auction_id": auctionID,
			"bid_id":     bid.BidID,
			"error":      err.Error(),
		})
		return
	}

	for _, member := range d.rooms.Members(auctionID) {
		if !member.Send(payload) {
			d.rooms.OnDisconnect(member)
			utils.Warn("dispatcher: dropped stalled connection", map[string]any{
				"auction_id": auctionID,
				"conn_id":    member.ID(),
			})
		}
	}
}

// NotifyRejected delivers a rejection reason to the proposer only
func (d *Dispatcher) NotifyRejected(auctionID int64, reason error, proposer room.Conn) {
	if proposer == nil {
		return
	}
	d.sendEvent(proposer, Event{
		Type:      EventBidRejected,
		AuctionID: auctionID,
		Reason:    reason.Error(),
	})
}

// NotifyError delivers a system or transient error to a single connection
func (d *Dispatcher) NotifyError(auctionID int64, message string, conn room.Conn) {
	if conn == nil {
		return
	}
	d.sendEvent(conn, Event{
		Type:      EventError,
		AuctionID: auctionID,
		Reason:    message,
	})
}

// SendCurrentBid delivers the ledger's current highest bid (or an empty
// current_bid event when none exists) to exactly one connection. Used on join
// and reconnect so a late subscriber is synchronized without history replay.
func (d *Dispatcher) SendCurrentBid(ctx context.Context, auctionID int64, conn room.Conn) error {
	event := Event{Type: EventCurrentBid, AuctionID: auctionID}

	bid, err := d.ledger.HighestBid(ctx, auctionID)
	switch {
	case err == nil:
		event.Bid = bidPayload(bid)
	case errors.Is(err, auctionerrors.ErrNoBids):
		// empty event: the auction has no bids yet
	default:
		return fmt.Errorf("dispatcher: failed to read current bid for auction %d: %w", auctionID, err)
	}

	d.sendEvent(conn, event)
	return nil
}

func (d *Dispatcher) sendEvent(conn room.Conn, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		utils.Error("dispatcher: failed to marshal event", map[string]any{
			"type":       event.Type,
			"auction_id": event.AuctionID,
			"error":      err.Error(),
		})
		return
	}
	if !conn.Send(payload) {
		utils.Warn("dispatcher: private send dropped", map[string]any{
			"type":       event.Type,
			"auction_id": event.AuctionID,
			"conn_id":    conn.ID(),
		})
	}
}
