package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/PabloPavan/pastebox/internal/db"
	"github.com/PabloPavan/pastebox/internal/httpapi"
	"github.com/PabloPavan/pastebox/internal/pastes"
	"github.com/PabloPavan/pastebox/internal/webui"
)

type testEnv struct {
	baseURL string
	server  *httptest.Server
	service *pastes.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Migrate(ctx); err != nil {
		t.Fatalf("db migrate: %v", err)
	}

	base := db.NewBase(pool.Pool, 3*time.Second)
	service := &pastes.Service{Store: pastes.NewRepository(base)}

	app := &httpapi.App{
		Health: &httpapi.HealthHandler{DB: pool.Pool},
		Pastes: &httpapi.PastesHandler{Service: service},
		Web:    webui.New(service),
	}

	srv := httptest.NewServer(httpapi.NewRouter(app))
	t.Cleanup(srv.Close)

	return &testEnv{
		baseURL: srv.URL,
		server:  srv,
		service: service,
	}
}

func createPaste(t *testing.T, baseURL string, body map[string]any) pastes.Paste {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	res, err := http.Post(baseURL+"/v1/pastes", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %d", res.StatusCode)
	}

	var paste pastes.Paste
	if err := json.NewDecoder(res.Body).Decode(&paste); err != nil {
		t.Fatal(err)
	}
	return paste
}

func fetchPaste(t *testing.T, baseURL, id, password string) (*http.Response, pastes.Paste) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, baseURL+"/v1/pastes/"+id, nil)
	if err != nil {
		t.Fatal(err)
	}
	if password != "" {
		req.Header.Set(httpapi.PasswordHeader, password)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}

	var paste pastes.Paste
	if res.StatusCode == http.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(&paste); err != nil {
			t.Fatal(err)
		}
	}
	res.Body.Close()
	return res, paste
}

func TestCreateAndFetchPaste(t *testing.T) {
	env := newTestEnv(t)

	created := createPaste(t, env.baseURL, map[string]any{
		"title":    "integration",
		"content":  "hello world",
		"language": "text",
	})
	if created.ID == "" {
		t.Fatal("empty id")
	}
	if created.ViewCount != 0 {
		t.Fatalf("fresh paste has %d views", created.ViewCount)
	}

	res, fetched := fetchPaste(t, env.baseURL, created.ID, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("fetch status: %d", res.StatusCode)
	}
	if fetched.Content != "hello world" {
		t.Fatalf("unexpected content: %q", fetched.Content)
	}
	if fetched.ViewCount != 1 {
		t.Fatalf("expected 1 view, got %d", fetched.ViewCount)
	}

	_, fetched = fetchPaste(t, env.baseURL, created.ID, "")
	if fetched.ViewCount != 2 {
		t.Fatalf("expected 2 views, got %d", fetched.ViewCount)
	}
}

func TestPasswordGateEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	created := createPaste(t, env.baseURL, map[string]any{
		"content":  "locked up",
		"password": "secret",
	})
	if !created.HasPassword {
		t.Fatal("expected password flag")
	}

	res, _ := fetchPaste(t, env.baseURL, created.ID, "")
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("ungated status: %d", res.StatusCode)
	}

	res, _ = fetchPaste(t, env.baseURL, created.ID, "wrong")
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong-password status: %d", res.StatusCode)
	}

	res, fetched := fetchPaste(t, env.baseURL, created.ID, "secret")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("gated status: %d", res.StatusCode)
	}
	if fetched.Content != "locked up" {
		t.Fatalf("unexpected content: %q", fetched.Content)
	}
}

func TestFetchUnknownID(t *testing.T) {
	env := newTestEnv(t)

	res, _ := fetchPaste(t, env.baseURL, "nosuchpasteid", "")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status: %d", res.StatusCode)
	}
}

func TestRecentExcludesPrivate(t *testing.T) {
	env := newTestEnv(t)

	public := createPaste(t, env.baseURL, map[string]any{"content": "public paste"})
	private := createPaste(t, env.baseURL, map[string]any{"content": "private paste", "is_private": true})

	res, err := http.Get(env.baseURL + "/v1/pastes/recent")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	var list []pastes.Summary
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) > 10 {
		t.Fatalf("more than 10 entries: %d", len(list))
	}

	foundPublic := false
	for i, s := range list {
		if s.ID == private.ID {
			t.Fatal("private paste listed")
		}
		if s.ID == public.ID {
			foundPublic = true
		}
		if i > 0 && s.CreatedAt.After(list[i-1].CreatedAt) {
			t.Fatal("recent list not ordered newest first")
		}
	}
	if !foundPublic {
		t.Fatal("public paste missing from recent list")
	}
}

func TestExpiredPasteIsGone(t *testing.T) {
	env := newTestEnv(t)

	// Create directly through the service with a clock in the past so the
	// paste is born expired.
	env.service.Now = func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) }
	paste, err := env.service.Create(context.Background(), pastes.CreatePasteRequest{
		Content: "short lived",
		Expiry:  pastes.ExpiryHour,
	})
	env.service.Now = nil
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, _ := fetchPaste(t, env.baseURL, paste.ID, "")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expired paste status: %d", res.StatusCode)
	}

	deleted, err := env.service.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if deleted < 1 {
		t.Fatal("sweep deleted nothing")
	}
}
