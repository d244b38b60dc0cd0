package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"auction-live/internal/auctionerrors"
	"auction-live/internal/models"
)

// PostgresLedger is a BidLedger backed by PostgreSQL. The append uses a
// conditional insert keyed on the previous highest amount, so even a
// misbehaving second writer cannot commit a non-increasing bid.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger opens a connection pool against the given DSN
func NewPostgresLedger(connStr string) (*PostgresLedger, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresLedger{db: db}, nil
}

// InitSchema creates the auctions and bids tables
func (l *PostgresLedger) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS auctions (
		id BIGINT PRIMARY KEY,
		seller_id VARCHAR(255) NOT NULL,
		title VARCHAR(255) NOT NULL,
		starting_price NUMERIC(14, 2) NOT NULL,
		reserve_price NUMERIC(14, 2),
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bids (
		id VARCHAR(255) PRIMARY KEY,
		auction_id BIGINT NOT NULL REFERENCES auctions(id),
		bidder_id VARCHAR(255) NOT NULL,
		amount NUMERIC(14, 2) NOT NULL,
		accepted_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bids_auction_amount ON bids(auction_id, amount DESC);
	`

	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AddAuction registers an auction, keeping an existing row untouched
func (l *PostgresLedger) AddAuction(ctx context.Context, auction models.Auction) error {
	query := `
		INSERT INTO auctions (id, seller_id, title, starting_price, reserve_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	var reserve decimal.NullDecimal
	if auction.ReservePrice != nil {
		reserve = decimal.NewNullDecimal(*auction.ReservePrice)
	}

	if _, err := l.db.ExecContext(ctx, query,
		auction.AuctionID, auction.SellerID, auction.Title, auction.StartingPrice, reserve); err != nil {
		return fmt.Errorf("failed to add auction %d: %w", auction.AuctionID, err)
	}
	return nil
}

// GetAuction returns the auction record for the given id
func (l *PostgresLedger) GetAuction(ctx context.Context, auctionID int64) (models.Auction, error) {
	query := `
		SELECT id, seller_id, title, starting_price, reserve_price
		FROM auctions
		WHERE id = $1
	`

	var auction models.Auction
	var reserve decimal.NullDecimal
	err := l.db.QueryRowContext(ctx, query, auctionID).Scan(
		&auction.AuctionID,
		&auction.SellerID,
		&auction.Title,
		&auction.StartingPrice,
		&reserve,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Auction{}, fmt.Errorf("get auction %d: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return models.Auction{}, fmt.Errorf("failed to query auction %d: %w", auctionID, err)
	}
	if reserve.Valid {
		auction.ReservePrice = &reserve.Decimal
	}
	return auction, nil
}

// HighestBid returns the accepted bid with the greatest amount for an auction
func (l *PostgresLedger) HighestBid(ctx context.Context, auctionID int64) (models.Bid, error) {
	query := `
		SELECT id, auction_id, bidder_id, amount, accepted_at
		FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC
		LIMIT 1
	`

	var bid models.Bid
	err := l.db.QueryRowContext(ctx, query, auctionID).Scan(
		&bid.BidID,
		&bid.AuctionID,
		&bid.BidderID,
		&bid.Amount,
		&bid.AcceptedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bid{}, fmt.Errorf("highest bid for auction %d: %w", auctionID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("failed to query highest bid for auction %d: %w", auctionID, err)
	}
	return bid, nil
}

// BidsForAuction returns all accepted bids in acceptance order. Amounts are
// strictly increasing within an auction, so ordering by amount reproduces the
// acceptance sequence.
func (l *PostgresLedger) BidsForAuction(ctx context.Context, auctionID int64) ([]models.Bid, error) {
	if _, err := l.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, auction_id, bidder_id, amount, accepted_at
		FROM bids
		WHERE auction_id = $1
		ORDER BY amount ASC
	`

	rows, err := l.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids for auction %d: %w", auctionID, err)
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		var bid models.Bid
		if err := rows.Scan(&bid.BidID, &bid.AuctionID, &bid.BidderID, &bid.Amount, &bid.AcceptedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bids for auction %d: %w", auctionID, err)
	}
	return bids, nil
}

// Append inserts an accepted bid. The insert only matches when no bid with an
// equal or higher amount exists, so a non-increasing append affects zero rows
// and is reported as ErrStaleAppend.
func (l *PostgresLedger) Append(ctx context.Context, bid models.Bid) (models.Bid, error) {
	query := `
		INSERT INTO bids (id, auction_id, bidder_id, amount, accepted_at)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM bids WHERE auction_id = $2 AND amount >= $4
		)
	`

	result, err := l.db.ExecContext(ctx, query,
		bid.BidID, bid.AuctionID, bid.BidderID, bid.Amount, bid.AcceptedAt)
	if err != nil {
		return models.Bid{}, fmt.Errorf("failed to append bid %s for auction %d: %w", bid.BidID, bid.AuctionID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return models.Bid{}, fmt.Errorf("failed to read append result: %w", err)
	}
	if rows == 0 {
		return models.Bid{}, fmt.Errorf("append bid %s for auction %d (amount %s): %w",
			bid.BidID, bid.AuctionID, bid.Amount, auctionerrors.ErrStaleAppend)
	}
	return bid, nil
}

// Close closes the database connection
func (l *PostgresLedger) Close() error {
	return l.db.Close()
}
