package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type fakeCounter struct {
	n   int
	err error
}

func (f *fakeCounter) CountTotal(_ context.Context) (int, error)   { return f.n, f.err }
func (f *fakeCounter) CountPending(_ context.Context) (int, error) { return f.n, f.err }

type fakeAppStore struct {
	app *model.Application
}

func (f *fakeAppStore) Get(_ context.Context, id string) (*model.Application, error) {
	if f.app == nil || f.app.ID != id {
		return nil, model.ErrNotFound
	}
	cp := *f.app
	return &cp, nil
}

func (f *fakeAppStore) Finalize(_ context.Context, id, status, reviewerID string, reason *string) (*model.Application, error) {
	return nil, model.ErrNotFound
}

func newAdminApp(h *AdminHandler) *fiber.App {
	app := fiber.New()
	app.Get("/stats", h.Stats)
	app.Post("/applications/:id/announce", h.AnnounceApplication)
	return app
}

func TestAdminStats(t *testing.T) {
	h := NewAdminHandler(
		&fakeCounter{n: 3}, &fakeCounter{n: 12}, &fakeCounter{n: 1},
		service.NewReviewService(&fakeAppStore{}, zerolog.Nop()), nil,
	)

	resp, err := newAdminApp(h).Test(httptest.NewRequest("GET", "/stats", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Profiles     int  `json:"profiles_total"`
		Sessions     int  `json:"sessions_total"`
		Pending      int  `json:"applications_pending"`
		BotConnected bool `json:"bot_connected"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Profiles != 3 || body.Sessions != 12 || body.Pending != 1 {
		t.Fatalf("unexpected counts: %+v", body)
	}
	if body.BotConnected {
		t.Fatalf("nil bot must report disconnected")
	}
}

// A down database must not masquerade as an empty one.
func TestAdminStatsSurfacesStoreErrors(t *testing.T) {
	h := NewAdminHandler(
		&fakeCounter{err: errors.New("connection refused")}, &fakeCounter{}, &fakeCounter{},
		service.NewReviewService(&fakeAppStore{}, zerolog.Nop()), nil,
	)

	resp, err := newAdminApp(h).Test(httptest.NewRequest("GET", "/stats", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("expected 500 when counts fail, got %d", resp.StatusCode)
	}
}

// With no bot running the announce endpoint must say so, not claim the
// card was posted.
func TestAnnounceWithDisabledBot(t *testing.T) {
	store := &fakeAppStore{app: &model.Application{
		ID:        "app-1",
		Status:    model.ApplicationPending,
		CreatedAt: time.Now(),
	}}
	h := NewAdminHandler(
		&fakeCounter{}, &fakeCounter{}, &fakeCounter{},
		service.NewReviewService(store, zerolog.Nop()), nil,
	)

	resp, err := newAdminApp(h).Test(httptest.NewRequest("POST", "/applications/app-1/announce", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503 with bot disabled, got %d", resp.StatusCode)
	}
}

func TestAnnounceUnknownApplication(t *testing.T) {
	h := NewAdminHandler(
		&fakeCounter{}, &fakeCounter{}, &fakeCounter{},
		service.NewReviewService(&fakeAppStore{}, zerolog.Nop()), nil,
	)

	resp, err := newAdminApp(h).Test(httptest.NewRequest("POST", "/applications/nope/announce", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
