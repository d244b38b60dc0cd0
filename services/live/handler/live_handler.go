package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"auction-live/internal/auctionerrors"
	"auction-live/internal/hub"
	"auction-live/internal/models"
	"auction-live/internal/room"
	"auction-live/services/live/helpers"
	"auction-live/utils"
)

type LiveServiceInterface interface {
	JoinRoom(ctx context.Context, auctionID int64, conn room.Conn) error
	LeaveRoom(auctionID int64, conn room.Conn)
	Disconnect(conn room.Conn)
	ProposeBid(ctx context.Context, auctionID int64, bidderID string, amount decimal.Decimal, proposer room.Conn) (models.Outcome, error)
	RequestCurrentBid(ctx context.Context, auctionID int64, conn room.Conn) error
	CurrentBid(ctx context.Context, auctionID int64) (models.Bid, error)
	BidHistory(ctx context.Context, auctionID int64) ([]models.Bid, error)
	WatcherCount(auctionID int64) int
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin policy is enforced by the excluded gateway layer
	CheckOrigin: func(r *http.Request) bool { return true },
}

type LiveHandler struct {
	service    LiveServiceInterface
	sendBuffer int
}

func NewLiveHandler(service LiveServiceInterface, sendBuffer int) *LiveHandler {
	return &LiveHandler{service: service, sendBuffer: sendBuffer}
}

// ServeWS handles GET /ws. It upgrades the connection and serves join/leave,
// bid proposals, and current-bid queries over it until the peer goes away.
// The bidder identity arrives pre-authenticated from the upstream auth layer.
func (h *LiveHandler) ServeWS(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, errors.New("user_id is required"), "user_id is required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Error("ServeWS: failed to upgrade connection", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	client := hub.NewClient(conn, utils.GenerateID(), h.sendBuffer)
	utils.Info("ServeWS: client connected", map[string]any{
		"conn_id": client.ID(),
		"user_id": userID,
	})

	client.ReadLoop(func(payload []byte) {
		h.handleFrame(c.Request.Context(), client, userID, payload)
	})

	h.service.Disconnect(client)
	utils.Info("ServeWS: client disconnected", map[string]any{
		"conn_id": client.ID(),
		"user_id": userID,
	})
}

// handleFrame dispatches one inbound websocket frame
func (h *LiveHandler) handleFrame(ctx context.Context, client *hub.Client, userID string, payload []byte) {
	var frame helpers.ClientFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		h.sendErrorEvent(client, 0, "malformed frame")
		utils.Warn("ServeWS: malformed frame", map[string]any{
			"conn_id": client.ID(),
			"error":   err.Error(),
		})
		return
	}

	switch frame.Action {
	case helpers.ActionJoinRoom:
		if err := h.service.JoinRoom(ctx, frame.AuctionID, client); err != nil {
			h.sendErrorEvent(client, frame.AuctionID, wsErrorMessage(err))
			utils.Warn("ServeWS: join failed", map[string]any{
				"conn_id":    client.ID(),
				"auction_id": frame.AuctionID,
				"error":      err.Error(),
			})
		}

	case helpers.ActionLeaveRoom:
		h.service.LeaveRoom(frame.AuctionID, client)

	case helpers.ActionCurrentBid:
		if err := h.service.RequestCurrentBid(ctx, frame.AuctionID, client); err != nil {
			h.sendErrorEvent(client, frame.AuctionID, wsErrorMessage(err))
		}

	case helpers.ActionPlaceBid:
		// rejections are delivered to the proposer by the dispatcher; an
		// acceptance reaches it through the room broadcast
		if _, err := h.service.ProposeBid(ctx, frame.AuctionID, userID, frame.Amount, client); err != nil {
			h.sendErrorEvent(client, frame.AuctionID, wsErrorMessage(err))
			utils.Error("ServeWS: proposal error", map[string]any{
				"conn_id":    client.ID(),
				"auction_id": frame.AuctionID,
				"user_id":    userID,
				"error":      err.Error(),
			})
		}

	default:
		h.sendErrorEvent(client, frame.AuctionID, fmt.Sprintf("unknown action %q", frame.Action))
	}
}

// wsErrorMessage renders an error for delivery to the client, keeping the
// transient/permanent distinction without leaking internals
func wsErrorMessage(err error) string {
	switch {
	case errors.Is(err, auctionerrors.ErrProposalTimeout):
		return "auction is busy, please retry"
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return "auction not found"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return "invalid bid details"
	default:
		return "internal error, please retry"
	}
}

func (h *LiveHandler) sendErrorEvent(client *hub.Client, auctionID int64, message string) {
	payload, err := json.Marshal(hub.Event{
		Type:      hub.EventError,
		AuctionID: auctionID,
		Reason:    message,
	})
	if err != nil {
		return
	}
	client.Send(payload)
}

// GetCurrentBidHandler handles GET /auctions/:auction_id/bid
func (h *LiveHandler) GetCurrentBidHandler(c *gin.Context) {
	auctionID, ok := parseAuctionID(c)
	if !ok {
		return
	}

	bid, err := h.service.CurrentBid(c.Request.Context(), auctionID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoBids) {
			utils.JSONResponse(c, http.StatusOK, nil, "no bids recorded for auction")
			return
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetCurrentBidHandler: error retrieving current bid", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "current bid retrieved successfully")
}

// GetBidHistoryHandler handles GET /auctions/:auction_id/bids
func (h *LiveHandler) GetBidHistoryHandler(c *gin.Context) {
	auctionID, ok := parseAuctionID(c)
	if !ok {
		return
	}

	bids, err := h.service.BidHistory(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidHistoryHandler: error retrieving bids", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, helpers.NewBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidHistoryHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(resp),
	})
}

// GetWatchersHandler handles GET /auctions/:auction_id/watchers
func (h *LiveHandler) GetWatchersHandler(c *gin.Context) {
	auctionID, ok := parseAuctionID(c)
	if !ok {
		return
	}

	resp := helpers.WatchersResponse{
		AuctionID: auctionID,
		Watchers:  h.service.WatcherCount(auctionID),
	}
	utils.JSONResponse(c, http.StatusOK, resp, "watchers retrieved successfully")
}

// ProposeBidHandler handles POST /auctions/:auction_id/bids. An accepted bid
// is also broadcast to the auction's room by the arbiter's commit hook, so
// websocket watchers see REST-originated bids too.
func (h *LiveHandler) ProposeBidHandler(c *gin.Context) {
	auctionID, ok := parseAuctionID(c)
	if !ok {
		return
	}

	var req helpers.ProposeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ProposeBidHandler", err)
		return
	}

	outcome, err := h.service.ProposeBid(c.Request.Context(), auctionID, req.BidderID, req.Amount, nil)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("ProposeBidHandler: failed to place bid", map[string]any{
			"auction_id": auctionID,
			"bidder_id":  req.BidderID,
			"error":      err.Error(),
		})
		return
	}

	if !outcome.Accepted {
		status, message := helpers.MapErrorToHTTP(outcome.Reason)
		utils.JSONError(c, status, outcome.Reason, message)
		utils.Info("ProposeBidHandler: bid rejected", map[string]any{
			"auction_id": auctionID,
			"bidder_id":  req.BidderID,
			"amount":     req.Amount.String(),
			"reason":     outcome.Reason.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(outcome.Bid), "bid accepted")
	helpers.LogSuccess("ProposeBidHandler", "bid accepted", map[string]any{
		"bid_id":     outcome.Bid.BidID,
		"auction_id": auctionID,
		"bidder_id":  req.BidderID,
		"amount":     outcome.Bid.Amount.String(),
	})
}

// parseAuctionID extracts and validates the :auction_id route parameter
func parseAuctionID(c *gin.Context) (int64, bool) {
	raw := c.Param("auction_id")
	auctionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || auctionID <= 0 {
		utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid auction id %q", raw), "invalid auction id")
		return 0, false
	}
	return auctionID, true
}
