package webui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PabloPavan/pastebox/internal/apperrors"
	"github.com/PabloPavan/pastebox/internal/pastes"
)

type serviceStub struct {
	createFn func(ctx context.Context, req pastes.CreatePasteRequest) (*pastes.Paste, error)
	getFn    func(ctx context.Context, id, password string) (*pastes.Paste, error)
	recentFn func(ctx context.Context) []pastes.Summary
}

func (s *serviceStub) Create(ctx context.Context, req pastes.CreatePasteRequest) (*pastes.Paste, error) {
	if s.createFn != nil {
		return s.createFn(ctx, req)
	}
	return &pastes.Paste{ID: "stub0000000id"}, nil
}

func (s *serviceStub) Get(ctx context.Context, id, password string) (*pastes.Paste, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id, password)
	}
	return nil, apperrors.New(apperrors.KindNotFound, "not found")
}

func (s *serviceStub) ListRecent(ctx context.Context) []pastes.Summary {
	if s.recentFn != nil {
		return s.recentFn(ctx)
	}
	return []pastes.Summary{}
}

func newTestServer(t *testing.T, stub *serviceStub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(stub))
	t.Cleanup(srv.Close)
	return srv
}

func getBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestCreateFormRenders(t *testing.T) {
	srv := newTestServer(t, &serviceStub{})

	res, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := getBody(t, res)

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}
	if !strings.Contains(body, "Create a new paste") {
		t.Fatal("create form missing")
	}
	for _, lang := range pastes.Languages {
		if !strings.Contains(body, ">"+lang+"<") {
			t.Fatalf("language %s missing from form", lang)
		}
	}
}

func TestCreateSubmitRedirects(t *testing.T) {
	stub := &serviceStub{createFn: func(ctx context.Context, req pastes.CreatePasteRequest) (*pastes.Paste, error) {
		if req.Content != "hello" || req.Expiry != pastes.ExpiryDay {
			t.Errorf("unexpected request: %+v", req)
		}
		return &pastes.Paste{ID: "abc123def4567"}, nil
	}}
	srv := newTestServer(t, stub)

	client := srv.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	res, err := client.PostForm(srv.URL+"/", url.Values{
		"content": {"hello"},
		"expiry":  {"1d"},
	})
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusSeeOther {
		t.Fatalf("status: %d", res.StatusCode)
	}
	if loc := res.Header.Get("Location"); loc != "/paste/abc123def4567" {
		t.Fatalf("location: %s", loc)
	}
}

func TestCreateSubmitBlankContentKeepsForm(t *testing.T) {
	called := false
	stub := &serviceStub{createFn: func(ctx context.Context, req pastes.CreatePasteRequest) (*pastes.Paste, error) {
		called = true
		return nil, nil
	}}
	srv := newTestServer(t, stub)

	res, err := srv.Client().PostForm(srv.URL+"/", url.Values{
		"title":   {"kept title"},
		"content": {"   "},
	})
	if err != nil {
		t.Fatal(err)
	}
	body := getBody(t, res)

	if called {
		t.Fatal("service called for blank content")
	}
	if !strings.Contains(body, "content is required") {
		t.Fatal("validation message missing")
	}
	if !strings.Contains(body, "kept title") {
		t.Fatal("form state not preserved")
	}
}

func TestViewRendersPaste(t *testing.T) {
	stub := &serviceStub{getFn: func(ctx context.Context, id, password string) (*pastes.Paste, error) {
		return &pastes.Paste{
			ID:        id,
			Title:     "my snippet",
			Content:   "fmt.Println(42)",
			Language:  "go",
			ViewCount: 7,
		}, nil
	}}
	srv := newTestServer(t, stub)

	res, err := http.Get(srv.URL + "/paste/abc123def4567")
	if err != nil {
		t.Fatal(err)
	}
	body := getBody(t, res)

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}
	if !strings.Contains(body, "my snippet") || !strings.Contains(body, "7 views") {
		t.Fatal("paste metadata missing")
	}
	if !strings.Contains(body, `class="language-go"`) {
		t.Fatal("highlight class missing for non-plain language")
	}
}

func TestViewPlainTextSkipsHighlighting(t *testing.T) {
	stub := &serviceStub{getFn: func(ctx context.Context, id, password string) (*pastes.Paste, error) {
		return &pastes.Paste{ID: id, Content: "just words", Language: pastes.LanguagePlain}, nil
	}}
	srv := newTestServer(t, stub)

	res, err := http.Get(srv.URL + "/paste/abc123def4567")
	if err != nil {
		t.Fatal(err)
	}
	body := getBody(t, res)

	if strings.Contains(body, "highlight.min.js") {
		t.Fatal("highlighter loaded for plain text")
	}
}

func TestViewPasswordLoop(t *testing.T) {
	stub := &serviceStub{getFn: func(ctx context.Context, id, password string) (*pastes.Paste, error) {
		if password != "secret" {
			return nil, apperrors.New(apperrors.KindPasswordRequired, "password required")
		}
		return &pastes.Paste{ID: id, Content: "unlocked", Language: pastes.LanguagePlain}, nil
	}}
	srv := newTestServer(t, stub)

	res, err := http.Get(srv.URL + "/paste/abc123def4567")
	if err != nil {
		t.Fatal(err)
	}
	body := getBody(t, res)
	if !strings.Contains(body, "password protected") {
		t.Fatal("password form missing")
	}
	if strings.Contains(body, "wrong password") {
		t.Fatal("error shown before any attempt")
	}

	res, err = srv.Client().PostForm(srv.URL+"/paste/abc123def4567", url.Values{"password": {"nope"}})
	if err != nil {
		t.Fatal(err)
	}
	body = getBody(t, res)
	if !strings.Contains(body, "wrong password") {
		t.Fatal("wrong-password message missing")
	}

	res, err = srv.Client().PostForm(srv.URL+"/paste/abc123def4567", url.Values{"password": {"secret"}})
	if err != nil {
		t.Fatal(err)
	}
	body = getBody(t, res)
	if !strings.Contains(body, "unlocked") {
		t.Fatal("content missing after correct password")
	}
}

func TestViewNotFound(t *testing.T) {
	srv := newTestServer(t, &serviceStub{})

	res, err := http.Get(srv.URL + "/paste/missing0000id")
	if err != nil {
		t.Fatal(err)
	}
	body := getBody(t, res)

	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status: %d", res.StatusCode)
	}
	if !strings.Contains(body, "Paste not found") {
		t.Fatal("not-found page missing")
	}
}

func TestRecentEmptyPlaceholder(t *testing.T) {
	srv := newTestServer(t, &serviceStub{})

	res, err := http.Get(srv.URL + "/recent")
	if err != nil {
		t.Fatal(err)
	}
	body := getBody(t, res)

	if !strings.Contains(body, "No recent pastes yet") {
		t.Fatal("placeholder missing")
	}
}

func TestRecentListsPastes(t *testing.T) {
	stub := &serviceStub{recentFn: func(ctx context.Context) []pastes.Summary {
		return []pastes.Summary{
			{ID: "aaa1111111111", Title: "first"},
			{ID: "bbb2222222222"},
		}
	}}
	srv := newTestServer(t, stub)

	res, err := http.Get(srv.URL + "/recent")
	if err != nil {
		t.Fatal(err)
	}
	body := getBody(t, res)

	if !strings.Contains(body, `href="/paste/aaa1111111111"`) {
		t.Fatal("link to paste missing")
	}
	if !strings.Contains(body, "first") {
		t.Fatal("title missing")
	}
	// Untitled pastes fall back to their id.
	if !strings.Contains(body, ">bbb2222222222<") {
		t.Fatal("id fallback missing")
	}
}
