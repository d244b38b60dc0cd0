package arbiter

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"auction-live/internal/auctionerrors"
	"auction-live/internal/ledger"
	"auction-live/internal/models"
)

// recordingBroadcaster captures accepted bids in the order they were published
type recordingBroadcaster struct {
	mu   sync.Mutex
	bids []models.Bid
}

func (r *recordingBroadcaster) BroadcastAccepted(_ int64, bid models.Bid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bids = append(r.bids, bid)
}

func (r *recordingBroadcaster) recorded() []models.Bid {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Bid(nil), r.bids...)
}

func seededLedger(auctionID int64, startingPrice int64) *ledger.MemoryLedger {
	l := ledger.NewMemoryLedger()
	l.AddAuction(models.Auction{
		AuctionID:     auctionID,
		SellerID:      "seller1",
		Title:         "Test auction",
		StartingPrice: decimal.NewFromInt(startingPrice),
	})
	return l
}

// Tests Propose against an evolving floor: starting price first, then each
// accepted bid.
func TestArbiter_Propose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	arb := New(seededLedger(42, 100))

	// cases run in order; accepted bids raise the floor for later ones
	steps := []struct {
		name       string
		auctionID  int64
		bidderID   string
		amount     int64
		wantAccept bool
		wantReason error
		wantError  error
	}{
		{name: "below_starting_price", auctionID: 42, bidderID: "userA", amount: 90, wantReason: auctionerrors.ErrBelowStartingPrice},
		{name: "equal_to_starting_price", auctionID: 42, bidderID: "userA", amount: 100, wantReason: auctionerrors.ErrBelowStartingPrice},
		{name: "first_valid_bid", auctionID: 42, bidderID: "userA", amount: 150, wantAccept: true},
		{name: "equal_to_highest", auctionID: 42, bidderID: "userB", amount: 150, wantReason: auctionerrors.ErrBidTooLow},
		{name: "below_highest", auctionID: 42, bidderID: "userB", amount: 120, wantReason: auctionerrors.ErrBidTooLow},
		{name: "above_highest", auctionID: 42, bidderID: "userB", amount: 175, wantAccept: true},
		{name: "zero_amount", auctionID: 42, bidderID: "userC", amount: 0, wantReason: auctionerrors.ErrInvalidAmount},
		{name: "negative_amount", auctionID: 42, bidderID: "userC", amount: -10, wantReason: auctionerrors.ErrInvalidAmount},
		{name: "empty_bidder", auctionID: 42, bidderID: "", amount: 200, wantError: auctionerrors.ErrInvalidBid},
		{name: "unknown_auction", auctionID: 7, bidderID: "userA", amount: 200, wantError: auctionerrors.ErrAuctionNotFound},
	}

	for _, tc := range steps {
		t.Run(tc.name, func(t *testing.T) {
			outcome, err := arb.Propose(ctx, tc.auctionID, tc.bidderID, decimal.NewFromInt(tc.amount))

			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				return
			}
			require.NoError(t, err)

			if tc.wantAccept {
				require.True(t, outcome.Accepted)
				require.Equal(t, tc.auctionID, outcome.Bid.AuctionID)
				require.Equal(t, tc.bidderID, outcome.Bid.BidderID)
				require.True(t, decimal.NewFromInt(tc.amount).Equal(outcome.Bid.Amount))
				require.NotEmpty(t, outcome.Bid.BidID)
				require.False(t, outcome.Bid.AcceptedAt.IsZero())
			} else {
				require.False(t, outcome.Accepted)
				require.ErrorIs(t, outcome.Reason, tc.wantReason)
			}
		})
	}
}

// N concurrent proposals with distinct amounts: the accepted subsequence must
// be strictly increasing, nothing is lost, and the maximum amount always wins.
func TestArbiter_ConcurrentProposalsSameAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bidLedger := seededLedger(42, 100)
	broadcaster := &recordingBroadcaster{}
	arb := New(bidLedger, WithBroadcaster(broadcaster))

	const proposals = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := make(map[string]decimal.Decimal)

	for i := 0; i < proposals; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			amount := decimal.NewFromInt(int64(101 + i))
			outcome, err := arb.Propose(ctx, 42, fmt.Sprintf("user-%d", i), amount)
			require.NoError(t, err)
			if outcome.Accepted {
				mu.Lock()
				accepted[outcome.Bid.BidID] = outcome.Bid.Amount
				mu.Unlock()
			} else {
				require.ErrorIs(t, outcome.Reason, auctionerrors.ErrBidTooLow)
			}
		}()
	}

	wg.Wait()

	history, err := bidLedger.BidsForAuction(ctx, 42)
	require.NoError(t, err)

	// every accepted outcome is in the ledger, and nothing else is
	require.Len(t, history, len(accepted))
	for _, bid := range history {
		amount, ok := accepted[bid.BidID]
		require.True(t, ok, "ledger holds bid %s that no proposer saw accepted", bid.BidID)
		require.True(t, amount.Equal(bid.Amount))
	}

	// strict monotonicity of amounts, non-decreasing timestamps
	for i := 1; i < len(history); i++ {
		require.True(t, history[i].Amount.GreaterThan(history[i-1].Amount))
		require.False(t, history[i].AcceptedAt.Before(history[i-1].AcceptedAt))
	}

	// the largest proposed amount can never be rejected
	highest, err := bidLedger.HighestBid(ctx, 42)
	require.NoError(t, err)
	require.True(t, highest.Amount.Equal(decimal.NewFromInt(100+proposals)))

	// broadcasts happened exactly once per acceptance, in acceptance order
	published := broadcaster.recorded()
	require.Len(t, published, len(history))
	for i, bid := range history {
		require.Equal(t, bid.BidID, published[i].BidID)
	}
}

// Proposals for unrelated auctions run concurrently without disturbing each
// other's sequences.
func TestArbiter_IndependentAuctions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bidLedger := ledger.NewMemoryLedger()
	for id := int64(1); id <= 4; id++ {
		bidLedger.AddAuction(models.Auction{
			AuctionID:     id,
			SellerID:      "seller1",
			Title:         fmt.Sprintf("Auction %d", id),
			StartingPrice: decimal.NewFromInt(10),
		})
	}
	arb := New(bidLedger)

	var wg sync.WaitGroup
	for id := int64(1); id <= 4; id++ {
		for i := 0; i < 25; i++ {
			wg.Add(1)
			id, i := id, i
			go func() {
				defer wg.Done()
				_, err := arb.Propose(ctx, id, fmt.Sprintf("user-%d", i), decimal.NewFromInt(int64(11+i)))
				require.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	for id := int64(1); id <= 4; id++ {
		history, err := bidLedger.BidsForAuction(ctx, id)
		require.NoError(t, err)
		require.NotEmpty(t, history)
		for i := 1; i < len(history); i++ {
			require.True(t, history[i].Amount.GreaterThan(history[i-1].Amount))
		}
		highest, err := bidLedger.HighestBid(ctx, id)
		require.NoError(t, err)
		require.True(t, highest.Amount.Equal(decimal.NewFromInt(35)))
	}
}

// A failed append is a hard error: no acceptance, no broadcast, and the next
// read reflects the pre-failure state.
func TestArbiter_AppendFailureIsNotAccepted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockLedger := ledger.NewMockBidLedger(ctrl)
	broadcaster := &recordingBroadcaster{}
	arb := New(mockLedger, WithBroadcaster(broadcaster))

	auction := models.Auction{AuctionID: 42, StartingPrice: decimal.NewFromInt(100)}
	mockLedger.EXPECT().GetAuction(gomock.Any(), int64(42)).Return(auction, nil)
	mockLedger.EXPECT().HighestBid(gomock.Any(), int64(42)).Return(models.Bid{}, auctionerrors.ErrNoBids)
	mockLedger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(models.Bid{}, fmt.Errorf("disk full"))

	outcome, err := arb.Propose(ctx, 42, "userA", decimal.NewFromInt(150))
	require.Error(t, err)
	require.False(t, outcome.Accepted)
	require.Empty(t, broadcaster.recorded())
}

// A proposal that cannot acquire its auction's slot in time fails with the
// transient ErrProposalTimeout, not a rejection.
func TestArbiter_ProposalTimeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockLedger := ledger.NewMockBidLedger(ctrl)
	arb := New(mockLedger, WithProposalTimeout(50*time.Millisecond))

	auction := models.Auction{AuctionID: 42, StartingPrice: decimal.NewFromInt(100)}
	release := make(chan struct{})
	appendStarted := make(chan struct{})

	mockLedger.EXPECT().GetAuction(gomock.Any(), int64(42)).Return(auction, nil).Times(2)
	mockLedger.EXPECT().HighestBid(gomock.Any(), int64(42)).Return(models.Bid{}, auctionerrors.ErrNoBids)
	mockLedger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, bid models.Bid) (models.Bid, error) {
			close(appendStarted)
			<-release
			return bid, nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := arb.Propose(ctx, 42, "userA", decimal.NewFromInt(150))
		done <- err
	}()

	// wait until the first proposal holds the slot inside Append
	<-appendStarted

	_, err := arb.Propose(ctx, 42, "userB", decimal.NewFromInt(200))
	require.ErrorIs(t, err, auctionerrors.ErrProposalTimeout)

	close(release)
	require.NoError(t, <-done)
}

// Acceptance timestamps never go backwards within an auction
func TestArbiter_TimestampsNonDecreasing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bidLedger := seededLedger(42, 0)
	arb := New(bidLedger)

	var previous time.Time
	for i := 0; i < 20; i++ {
		outcome, err := arb.Propose(ctx, 42, "userA", decimal.NewFromInt(int64(1+i)))
		require.NoError(t, err)
		require.True(t, outcome.Accepted)
		require.False(t, outcome.Bid.AcceptedAt.Before(previous))
		previous = outcome.Bid.AcceptedAt
	}
}
