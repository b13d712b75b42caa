package handlers_test

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"astranode/internal/domain"
	"astranode/internal/http/handlers"
	"astranode/internal/repos"
	"astranode/internal/services"
)

// Minimal app wiring mirroring the real route table (no limiters, no
// simulated inference latency).
func newMarketApp(t *testing.T, allowDemo bool) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	market := services.NewMarketplaceService(repos.NewListingRepo(db, time.Second), allowDemo)
	studio := services.NewStudioService(services.RegexAnalyzer{})
	mh := &handlers.MarketplaceHandler{Market: market}
	sh := &handlers.StudioHandler{Studio: studio}

	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/api/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	app.Post("/api/generate", sh.Generate)
	app.Post("/api/metadata", sh.Metadata)
	app.Get("/api/marketplace", mh.Browse)
	app.Post("/api/marketplace/sync", mh.Sync)
	app.Post("/api/marketplace/update", mh.Update)
	return app
}

func jsonReq(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func browse(t *testing.T, app *fiber.App) []domain.Listing {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/api/marketplace", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("browse: %d", resp.StatusCode)
	}
	return decode[[]domain.Listing](t, resp)
}

func findListing(listings []domain.Listing, nftID string) (domain.Listing, bool) {
	for _, l := range listings {
		if l.NftID == nftID {
			return l, true
		}
	}
	return domain.Listing{}, false
}

func demoSync(nftID, owner, price string) map[string]any {
	return map[string]any{
		"nft_id": nftID, "owner": owner, "price": price, "denom": "uastra",
		"name": "Test Art", "ai_prompt": "test", "model_version": "v2.1",
		"signature": "demo", "message": "Mint " + nftID, "isDemo": true,
	}
}

func TestHealth(t *testing.T) {
	app := newMarketApp(t, true)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Fatalf("health: %v", body)
	}
}

func TestBrowseSeeded(t *testing.T) {
	app := newMarketApp(t, true)
	listings := browse(t, app)
	if len(listings) != 3 {
		t.Fatalf("want 3 seeded listings, got %d", len(listings))
	}
}

// Demo mint, purchase transfer, foreign reprice no-op, delist.
func TestMarketplaceLifecycle(t *testing.T) {
	app := newMarketApp(t, true)

	resp, err := app.Test(jsonReq(t, "POST", "/api/marketplace/sync", demoSync("art-1", "0xA", "100")))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sync: %d", resp.StatusCode)
	}
	l, ok := findListing(browse(t, app), "art-1")
	if !ok || l.Owner != "0xA" || l.Price != "100" {
		t.Fatalf("after mint: %+v ok=%v", l, ok)
	}

	// Purchase: buyer re-syncs with themselves as owner.
	resp, _ = app.Test(jsonReq(t, "POST", "/api/marketplace/sync", demoSync("art-1", "0xB", "100")))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("transfer sync: %d", resp.StatusCode)
	}
	l, _ = findListing(browse(t, app), "art-1")
	if l.Owner != "0xB" {
		t.Fatalf("ownership not transferred: %+v", l)
	}

	// Stale owner reprices: blanket success, nothing changes.
	resp, _ = app.Test(jsonReq(t, "POST", "/api/marketplace/update", map[string]any{
		"nft_id": "art-1", "owner": "0xA", "price": "999", "action": "update_price",
		"signature": "demo", "message": "Update", "isDemo": true,
	}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scoped-miss update: %d", resp.StatusCode)
	}
	l, _ = findListing(browse(t, app), "art-1")
	if l.Price != "100" {
		t.Fatalf("price changed by stale owner: %q", l.Price)
	}

	// Current owner delists.
	resp, _ = app.Test(jsonReq(t, "POST", "/api/marketplace/update", map[string]any{
		"nft_id": "art-1", "owner": "0xB", "action": "delist",
		"signature": "demo", "message": "Delist", "isDemo": true,
	}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delist: %d", resp.StatusCode)
	}
	if _, ok := findListing(browse(t, app), "art-1"); ok {
		t.Fatal("listing still present after delist")
	}
}

func TestSyncMissingAuthRejectedBeforeStore(t *testing.T) {
	app := newMarketApp(t, true)
	body := map[string]any{
		"nft_id": "art-9", "owner": "0xA", "price": "100", "isDemo": false,
	}
	resp, err := app.Test(jsonReq(t, "POST", "/api/marketplace/sync", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
	if _, ok := findListing(browse(t, app), "art-9"); ok {
		t.Fatal("listing created without authentication")
	}
}

func TestSyncInvalidSignatureRejected(t *testing.T) {
	app := newMarketApp(t, true)
	body := demoSync("art-9", "0xA", "100")
	body["isDemo"] = false
	body["signature"] = "deadbeef"
	resp, err := app.Test(jsonReq(t, "POST", "/api/marketplace/sync", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403, got %d", resp.StatusCode)
	}
}

func TestSyncRealSignature(t *testing.T) {
	app := newMarketApp(t, true)
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	owner := crypto.PubkeyToAddress(key.PublicKey).Hex()
	msg := "Mint art-7"
	sig := signText(t, key, msg)

	body := map[string]any{
		"nft_id": "art-7", "owner": owner, "price": "100", "denom": "uastra",
		"name": "Signed Art", "signature": sig, "message": msg, "isDemo": false,
	}
	resp, err := app.Test(jsonReq(t, "POST", "/api/marketplace/sync", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signed sync: %d", resp.StatusCode)
	}
	if _, ok := findListing(browse(t, app), "art-7"); !ok {
		t.Fatal("signed listing not created")
	}

	// Same signature for a different claimed owner fails.
	body["owner"] = "0x0000000000000000000000000000000000000001"
	resp, _ = app.Test(jsonReq(t, "POST", "/api/marketplace/sync", body))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("forged owner: want 403, got %d", resp.StatusCode)
	}
}

func signText(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	sig, err := crypto.Sign(crypto.Keccak256([]byte(prefixed)), key)
	if err != nil {
		t.Fatal(err)
	}
	return hex.EncodeToString(sig)
}

func TestDemoDisabledRejected(t *testing.T) {
	app := newMarketApp(t, false)
	resp, err := app.Test(jsonReq(t, "POST", "/api/marketplace/sync", demoSync("art-1", "0xA", "100")))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("demo disabled: want 403, got %d", resp.StatusCode)
	}
}

func TestSignatureObjectShapeAccepted(t *testing.T) {
	// Cosmos wallets send signature as {pub_key, signature}.
	app := newMarketApp(t, true)
	raw := `{"nft_id":"art-2","owner":"astra1xyz","price":"50","signature":{"pub_key":"abc","signature":"demo_signature"},"message":"Mint","isDemo":true}`
	req := httptest.NewRequest("POST", "/api/marketplace/sync", strings.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("object signature: %d", resp.StatusCode)
	}
}

func TestUpdateValidation(t *testing.T) {
	app := newMarketApp(t, true)

	// unknown action
	resp, _ := app.Test(jsonReq(t, "POST", "/api/marketplace/update", map[string]any{
		"nft_id": "1", "owner": "astra1...", "action": "burn",
		"signature": "demo", "message": "x", "isDemo": true,
	}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown action: want 400, got %d", resp.StatusCode)
	}

	// bad price
	resp, _ = app.Test(jsonReq(t, "POST", "/api/marketplace/update", map[string]any{
		"nft_id": "1", "owner": "astra1...", "price": "not-a-number", "action": "update_price",
		"signature": "demo", "message": "x", "isDemo": true,
	}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad price: want 400, got %d", resp.StatusCode)
	}

	// missing nft_id
	resp, _ = app.Test(jsonReq(t, "POST", "/api/marketplace/update", map[string]any{
		"owner": "astra1...", "price": "10", "action": "update_price",
		"signature": "demo", "message": "x", "isDemo": true,
	}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing nft_id: want 400, got %d", resp.StatusCode)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	app := newMarketApp(t, true)

	resp, err := app.Test(jsonReq(t, "POST", "/api/generate", map[string]any{"prompt": ""}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty prompt: want 400, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq(t, "POST", "/api/generate", map[string]any{
		"prompt": "a whale named Stellaris with price 420",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate: %d", resp.StatusCode)
	}
	res := decode[domain.GenerateResult](t, resp)
	if res.ExtractedName != "Stellaris" || res.ExtractedPrice != "420" {
		t.Fatalf("extraction: %+v", res)
	}
	if res.ImageURL == "" || res.AgentName == "" {
		t.Fatalf("missing fields: %+v", res)
	}
}

func TestMetadataEndpoint(t *testing.T) {
	app := newMarketApp(t, true)

	resp, _ := app.Test(jsonReq(t, "POST", "/api/metadata", map[string]any{"description": "no name"}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing name: want 400, got %d", resp.StatusCode)
	}

	resp, err := app.Test(jsonReq(t, "POST", "/api/metadata", map[string]any{
		"name": "Stellaris", "description": "a whale", "ai_prompt": "cosmic whale",
		"model_version": "v2.1", "image_url": "ipfs://img",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metadata: %d", resp.StatusCode)
	}
	md := decode[domain.Metadata](t, resp)
	if md.Name != "Stellaris" || len(md.Attributes) != 3 || !strings.HasPrefix(md.Digest, "0x") {
		t.Fatalf("metadata doc: %+v", md)
	}
}
