package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"auction-live/internal/auctionerrors"
	"auction-live/internal/models"
	"auction-live/utils"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message.
// Rejection reasons land on 409 so clients can render "raise your bid";
// arbitration timeouts land on 503 so clients retry instead.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrInvalidAmount):
		return http.StatusBadRequest, "bid amount must be positive"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid not above current highest bid"
	case errors.Is(err, auctionerrors.ErrBelowStartingPrice):
		return http.StatusConflict, "bid below auction starting price"
	case errors.Is(err, auctionerrors.ErrProposalTimeout):
		return http.StatusServiceUnavailable, "auction is busy, please retry"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusOK, "no bids recorded for auction"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// NewBidResponse converts a committed bid to its response DTO
func NewBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:      bid.BidID,
		AuctionID:  bid.AuctionID,
		BidderID:   bid.BidderID,
		Amount:     bid.Amount,
		AcceptedAt: bid.AcceptedAt.UTC().Format(time.RFC3339),
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
