package auctionerrors

import "errors"

// Ledger-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrNoBids          = errors.New("no bids recorded for auction")
	// ErrStaleAppend signals an append that would break the strictly-increasing
	// bid sequence. The arbiter serializes writes, so hitting this is an
	// arbitration bug, not a normal rejection.
	ErrStaleAppend = errors.New("append would violate bid ordering")
)

// Proposal rejection reasons, delivered to bidders as typed outcomes
var (
	ErrInvalidAmount      = errors.New("bid amount must be positive")
	ErrBidTooLow          = errors.New("amount not above current highest bid")
	ErrBelowStartingPrice = errors.New("amount below auction starting price")
)

// Caller-contract and transient errors
var (
	ErrInvalidBid = errors.New("invalid bid")
	// ErrProposalTimeout means the auction's serialization slot could not be
	// acquired in time. Retryable, and distinct from a rejection so clients
	// don't render it as "bid too low".
	ErrProposalTimeout = errors.New("auction arbitration busy")
)
