package handler

import (
	"context"
	"errors"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/discord"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProfileCounter, SessionCounter and ApplicationCounter are the row
// counts the operator stats endpoint reads; the repositories satisfy
// them.
type ProfileCounter interface {
	CountTotal(ctx context.Context) (int, error)
}

type SessionCounter interface {
	CountTotal(ctx context.Context) (int, error)
}

type ApplicationCounter interface {
	CountPending(ctx context.Context) (int, error)
}

type AdminHandler struct {
	profiles ProfileCounter
	sessions SessionCounter
	apps     ApplicationCounter
	review   *service.ReviewService
	bot      *discord.Bot
}

func NewAdminHandler(
	profiles ProfileCounter,
	sessions SessionCounter,
	apps ApplicationCounter,
	review *service.ReviewService,
	bot *discord.Bot,
) *AdminHandler {
	return &AdminHandler{
		profiles: profiles,
		sessions: sessions,
		apps:     apps,
		review:   review,
		bot:      bot,
	}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	profiles, err := h.profiles.CountTotal(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load stats"})
	}
	sessions, err := h.sessions.CountTotal(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load stats"})
	}
	pending, err := h.apps.CountPending(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load stats"})
	}

	return c.JSON(fiber.Map{
		"profiles_total":       profiles,
		"sessions_total":       sessions,
		"applications_pending": pending,
		"bot_connected":        h.bot.Connected(),
	})
}

// AnnounceApplication posts the review card for a pending application
// to the Discord review channel. Called by the website backend after a
// whitelist form submission lands.
func (h *AdminHandler) AnnounceApplication(c *fiber.Ctx) error {
	id := c.Params("id")

	app, err := h.review.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "application not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load application"})
	}
	if app.Status != model.ApplicationPending {
		return c.Status(409).JSON(fiber.Map{"error": "application already reviewed"})
	}

	if err := h.bot.AnnounceApplication(app); err != nil {
		if errors.Is(err, discord.ErrBotDisabled) {
			return c.Status(503).JSON(fiber.Map{"error": "discord bot is not running"})
		}
		return c.Status(502).JSON(fiber.Map{"error": "failed to post review card"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
