package discord

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// ErrBotDisabled is returned by outbound operations when no bot token
// was configured and the bot is running as a no-op.
var ErrBotDisabled = errors.New("discord bot disabled")

// Bot manages the Discord gateway connection and routes interactions to
// the duty, wizard, and review handlers.
type Bot struct {
	session       *discordgo.Session
	guildID       string
	reviewChannel string

	duty     *service.DutyService
	profiles *service.ProfileService
	review   *service.ReviewService
	log      zerolog.Logger
}

// NewBot creates and configures the duty bot. An empty token disables
// it; every method on a disabled bot is a no-op.
func NewBot(
	token string,
	guildID string,
	reviewChannel string,
	duty *service.DutyService,
	profiles *service.ProfileService,
	review *service.ReviewService,
	log zerolog.Logger,
) (*Bot, error) {
	if token == "" {
		log.Info().Msg("no bot token configured, bot disabled")
		return nil, nil
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		session:       s,
		guildID:       guildID,
		reviewChannel: reviewChannel,
		duty:          duty,
		profiles:      profiles,
		review:        review,
		log:           log.With().Str("component", "discord-bot").Logger(),
	}

	s.AddHandler(bot.onInteractionCreate)

	return bot, nil
}

// Start opens the gateway connection and registers guild commands.
// Registration is an idempotent overwrite, so restarts are safe.
func (b *Bot) Start() error {
	if b == nil || b.session == nil {
		return nil
	}
	if err := b.session.Open(); err != nil {
		return err
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "duty",
			Description: "Post the duty panel in this channel",
		},
	}
	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.guildID, commands); err != nil {
		b.log.Error().Err(err).Msg("failed to register guild commands")
	}

	b.log.Info().Msg("bot connected to Discord")
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() {
	if b == nil || b.session == nil {
		return
	}
	_ = b.session.Close()
	b.log.Info().Msg("bot disconnected")
}

// Connected reports whether the gateway session is live.
func (b *Bot) Connected() bool {
	return b != nil && b.session != nil && b.session.DataReady
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	r := NewResponder(s, i.Interaction, b.log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, r, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, r, i)
	case discordgo.InteractionModalSubmit:
		b.handleModalSubmit(ctx, r, i)
	}
}

func (b *Bot) handleCommand(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "duty":
		b.handleDutyPanel(ctx, r)
	}
}

func (b *Bot) handleComponent(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case customID == idClockIn:
		b.handleClockIn(ctx, r, i)
	case customID == idClockOff:
		b.handleClockOff(ctx, r, i)
	case customID == idStatus:
		b.handleStatus(ctx, r, i)
	case customID == idEditProfile:
		b.handleEditProfile(ctx, r, i)
	case strings.HasPrefix(customID, wizardPrefix+":"):
		b.handleWizardComponent(ctx, r, i)
	case strings.HasPrefix(customID, reviewPrefix+":"):
		b.handleReviewComponent(ctx, r, i)
	default:
		b.log.Warn().Str("custom_id", customID).Msg("unknown component interaction")
		b.rejectInteraction(r)
	}
}

func (b *Bot) handleModalSubmit(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	customID := i.ModalSubmitData().CustomID
	switch {
	case customID == idClockOffSubmit:
		b.handleClockOffSubmit(ctx, r, i)
	case strings.HasPrefix(customID, wizardPrefix+":"):
		b.handleWizardSubmit(ctx, r, i)
	case strings.HasPrefix(customID, reviewPrefix+":"):
		b.handleReviewSubmit(ctx, r, i)
	default:
		b.log.Warn().Str("custom_id", customID).Msg("unknown modal submit")
		b.rejectInteraction(r)
	}
}

// rejectInteraction answers an unroutable live interaction with a
// generic retry line. A live interaction never ends in silence, even
// when its custom id is foreign or stale.
func (b *Bot) rejectInteraction(r *Responder) {
	var err error
	switch r.State() {
	case StateFresh:
		err = r.Reply(&discordgo.InteractionResponseData{
			Content: genericRetryMessage,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
	case StateAcknowledged:
		msg := genericRetryMessage
		err = r.Edit(&discordgo.WebhookEdit{Content: &msg})
	default:
		return
	}
	if err != nil {
		b.log.Error().Err(err).Msg("failed to reject interaction")
	}
}

// interactionUser resolves the acting user for guild and DM
// interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// memberDisplayName prefers the guild nickname over the account name.
func memberDisplayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	return interactionUser(i).Username
}
