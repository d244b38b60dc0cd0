package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"auction-live/internal/arbiter"
	"auction-live/internal/config"
	"auction-live/internal/hub"
	"auction-live/internal/ledger"
	live "auction-live/internal/liveService"
	"auction-live/internal/models"
	"auction-live/internal/room"
	"auction-live/internal/server"
	"auction-live/utils"
)

func main() {
	cfg := config.Load()

	bidLedger, cleanup, err := buildLedger(cfg)
	if err != nil {
		utils.Fatal("failed to initialize ledger", map[string]any{
			"driver": cfg.LedgerDriver,
			"error":  err.Error(),
		})
	}
	defer cleanup()

	rooms := room.NewRegistry()
	dispatcher := hub.NewDispatcher(rooms, bidLedger)
	arb := arbiter.New(bidLedger,
		arbiter.WithProposalTimeout(cfg.ProposalTimeout),
		arbiter.WithBroadcaster(dispatcher),
	)
	liveService := live.NewService(arb, bidLedger, rooms, dispatcher)

	router := server.SetupRouter(liveService, cfg.SendBuffer)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		utils.Info("starting live auction server", map[string]any{
			"addr":   cfg.Port,
			"ledger": cfg.LedgerDriver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server error", map[string]any{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Info("shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("forced shutdown", map[string]any{"error": err.Error()})
	}
}

// buildLedger picks the ledger backend from configuration. The memory ledger
// is seeded with demo auctions; the postgres ledger initializes its schema.
func buildLedger(cfg *config.Config) (ledger.BidLedger, func(), error) {
	if cfg.LedgerDriver == config.LedgerPostgres {
		pg, err := ledger.NewPostgresLedger(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.InitSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, func() { pg.Close() }, nil
	}

	mem := ledger.NewMemoryLedger()
	prepopulateAuctions(mem)
	return mem, func() {}, nil
}

// prepopulateAuctions adds sample auctions to the in-memory ledger
func prepopulateAuctions(l *ledger.MemoryLedger) {
	reserve := decimal.NewFromInt(500)
	auctions := []models.Auction{
		{AuctionID: 1, SellerID: "seller1", Title: "Vintage turntable", StartingPrice: decimal.NewFromInt(100)},
		{AuctionID: 2, SellerID: "seller2", Title: "Mountain bike", StartingPrice: decimal.NewFromInt(200), ReservePrice: &reserve},
		{AuctionID: 3, SellerID: "seller1", Title: "Oil painting", StartingPrice: decimal.NewFromInt(150)},
	}

	for _, auction := range auctions {
		l.AddAuction(auction)
	}
}
