package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"auction-live/internal/arbiter"
	"auction-live/internal/hub"
	"auction-live/internal/ledger"
	live "auction-live/internal/liveService"
	"auction-live/internal/models"
	"auction-live/internal/room"
	"auction-live/internal/server"
)

// SetupTestRouter initializes the router with an in-memory ledger for
// integration testing and seeds it with the given auctions.
func SetupTestRouter(auctions ...models.Auction) *gin.Engine {
	gin.SetMode(gin.TestMode)

	bidLedger := ledger.NewMemoryLedger()
	for _, auction := range auctions {
		bidLedger.AddAuction(auction)
	}

	rooms := room.NewRegistry()
	dispatcher := hub.NewDispatcher(rooms, bidLedger)
	arb := arbiter.New(bidLedger, arbiter.WithBroadcaster(dispatcher))
	service := live.NewService(arb, bidLedger, rooms, dispatcher)
	return server.SetupRouter(service, 16)
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and
// parses the response envelope.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	case nil:
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}
