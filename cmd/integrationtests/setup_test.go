package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"auction-engine/internal/auction"
	model "auction-engine/internal/models"
	"auction-engine/internal/notify"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"

	"github.com/gin-gonic/gin"
)

// SetupTestRouterWithListings initializes the router over an in-memory
// repository seeded with listings. The repository is returned as well so
// tests can seed bids and users directly.
func SetupTestRouterWithListings(listings ...model.Listing) (*gin.Engine, *repository.MemoryRepo) {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()

	for _, listing := range listings {
		repo.AddListing(listing)
	}

	service := auction.NewAuctionService(repo, notify.LogSink{}, 5)
	router := server.SetupRouter(service)
	return router, repo
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// responseData extracts the data object from a success envelope.
func responseData(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return data
}
