package live

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"auction-live/internal/arbiter"
	"auction-live/internal/auctionerrors"
	"auction-live/internal/hub"
	"auction-live/internal/ledger"
	"auction-live/internal/models"
	"auction-live/internal/room"
)

// Service exposes the boundary operations of the live bidding core: room
// membership, bid proposals, and current-bid point queries. Transport
// handlers (websocket or REST) call into it with pre-authenticated bidder
// identities.
type Service struct {
	arbiter    *arbiter.Arbiter
	ledger     ledger.BidLedger
	rooms      *room.Registry
	dispatcher *hub.Dispatcher
}

// NewService creates a new live bidding service
func NewService(arb *arbiter.Arbiter, l ledger.BidLedger, rooms *room.Registry, dispatcher *hub.Dispatcher) *Service {
	return &Service{
		arbiter:    arb,
		ledger:     l,
		rooms:      rooms,
		dispatcher: dispatcher,
	}
}

// JoinRoom subscribes the connection to live updates for an auction and
// replies with the current highest bid so late joiners are not left
// unsynchronized until the next live bid.
func (s *Service) JoinRoom(ctx context.Context, auctionID int64, conn room.Conn) error {
	if auctionID <= 0 {
		return fmt.Errorf("service: %w - invalid auction id", auctionerrors.ErrInvalidBid)
	}
	if _, err := s.ledger.GetAuction(ctx, auctionID); err != nil {
		return fmt.Errorf("service: failed to join room for auction %d: %w", auctionID, err)
	}

	s.rooms.Join(auctionID, conn)
	return s.dispatcher.SendCurrentBid(ctx, auctionID, conn)
}

// LeaveRoom unsubscribes the connection from an auction's updates
func (s *Service) LeaveRoom(auctionID int64, conn room.Conn) {
	s.rooms.Leave(auctionID, conn)
}

// Disconnect removes the connection from every room it belonged to
func (s *Service) Disconnect(conn room.Conn) {
	s.rooms.OnDisconnect(conn)
}

// ProposeBid runs the proposal through the auction's arbiter. An accepted bid
// is broadcast to the room by the arbiter's commit hook; a rejection is
// delivered privately to the proposing connection (when there is one) and
// returned either way.
func (s *Service) ProposeBid(ctx context.Context, auctionID int64, bidderID string, amount decimal.Decimal, proposer room.Conn) (models.Outcome, error) {
	if auctionID <= 0 {
		return models.Outcome{}, fmt.Errorf("service: %w - invalid auction id", auctionerrors.ErrInvalidBid)
	}

	outcome, err := s.arbiter.Propose(ctx, auctionID, bidderID, amount)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("service: proposal failed for auction %d: %w", auctionID, err)
	}

	if !outcome.Accepted {
		s.dispatcher.NotifyRejected(auctionID, outcome.Reason, proposer)
	}
	return outcome, nil
}

// RequestCurrentBid answers an explicit point query over the connection,
// independent of room membership.
func (s *Service) RequestCurrentBid(ctx context.Context, auctionID int64, conn room.Conn) error {
	if auctionID <= 0 {
		return fmt.Errorf("service: %w - invalid auction id", auctionerrors.ErrInvalidBid)
	}
	if _, err := s.ledger.GetAuction(ctx, auctionID); err != nil {
		return fmt.Errorf("service: failed to read current bid for auction %d: %w", auctionID, err)
	}
	return s.dispatcher.SendCurrentBid(ctx, auctionID, conn)
}

// CurrentBid returns the auction's highest accepted bid for request/response
// callers. ErrNoBids passes through when the auction has none.
func (s *Service) CurrentBid(ctx context.Context, auctionID int64) (models.Bid, error) {
	if auctionID <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - invalid auction id", auctionerrors.ErrInvalidBid)
	}
	if _, err := s.ledger.GetAuction(ctx, auctionID); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load auction %d: %w", auctionID, err)
	}

	bid, err := s.ledger.HighestBid(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to read highest bid for auction %d: %w", auctionID, err)
	}
	return bid, nil
}

// BidHistory returns all accepted bids for an auction in acceptance order
func (s *Service) BidHistory(ctx context.Context, auctionID int64) ([]models.Bid, error) {
	if auctionID <= 0 {
		return nil, fmt.Errorf("service: %w - invalid auction id", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.ledger.BidsForAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read bids for auction %d: %w", auctionID, err)
	}
	return bids, nil
}

// WatcherCount returns how many connections are subscribed to an auction
func (s *Service) WatcherCount(auctionID int64) int {
	return s.rooms.MemberCount(auctionID)
}
