package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"

	"github.com/bwmarrin/discordgo"
)

// AnnounceApplication posts the review card for a pending whitelist
// application to the configured review channel.
func (b *Bot) AnnounceApplication(app *model.Application) error {
	if b == nil || b.session == nil {
		return ErrBotDisabled
	}
	if b.reviewChannel == "" {
		return errors.New("no review channel configured")
	}

	msg := reviewCard(app)
	_, err := b.session.ChannelMessageSendComplex(b.reviewChannel, &discordgo.MessageSend{
		Embeds:     msg.Embeds,
		Components: msg.Components,
	})
	return err
}

// handleReviewComponent routes the accept and decline buttons. Decline
// collects a reason through a modal, which must be the first response.
func (b *Bot) handleReviewComponent(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	action, appID, ok := decodeReviewID(i.MessageComponentData().CustomID)
	if !ok || appID == "" {
		b.log.Warn().Str("custom_id", i.MessageComponentData().CustomID).Msg("malformed review id")
		b.rejectInteraction(r)
		return
	}

	switch action {
	case "accept":
		b.reviewAccept(ctx, r, i, appID)
	case "decline":
		b.reviewDeclineModal(r, i, appID)
	default:
		b.log.Warn().Str("action", action).Msg("unknown review action")
		b.rejectInteraction(r)
	}
}

func (b *Bot) reviewAccept(ctx context.Context, r *Responder, i *discordgo.InteractionCreate, appID string) {
	if err := r.DeferUpdate(); err != nil {
		return
	}

	reviewer := interactionUser(i)
	app, err := b.review.Accept(ctx, appID, reviewer.ID)
	switch {
	case errors.Is(err, model.ErrAlreadyReviewed):
		// Someone beat this click. Re-render the card with the stored
		// outcome and tell the reviewer in a followup.
		if app, err = b.review.Get(ctx, appID); err != nil {
			b.log.Error().Err(err).Str("application_id", appID).Msg("review lookup failed")
			return
		}
		b.updateReviewCard(r, app)
		if err := r.Followup(true, "This application was already reviewed."); err != nil {
			b.log.Warn().Err(err).Msg("review followup dropped")
		}
	case err != nil:
		b.log.Error().Err(err).Str("application_id", appID).Msg("accept failed")
		msg := genericRetryMessage
		_ = r.Edit(&discordgo.WebhookEdit{Content: &msg})
	default:
		b.updateReviewCard(r, app)
	}
}

// reviewDeclineModal opens the decline-reason form. The originating
// message id rides along in the custom id so the card can be updated
// after the modal round-trip.
func (b *Bot) reviewDeclineModal(r *Responder, i *discordgo.InteractionCreate, appID string) {
	err := r.Modal(&discordgo.InteractionResponseData{
		CustomID: encodeReviewID("reason", appID+":"+i.Message.ID),
		Title:    "Decline Application",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "reason",
					Label:       "Reason",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Shown to the applicant",
					Required:    true,
					MaxLength:   500,
				},
			}},
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("failed to open decline modal")
	}
}

// handleReviewSubmit finalizes a decline with its reason.
func (b *Bot) handleReviewSubmit(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	action, rest, ok := decodeReviewID(i.ModalSubmitData().CustomID)
	if !ok || action != "reason" {
		b.log.Warn().Str("custom_id", i.ModalSubmitData().CustomID).Msg("malformed review submit id")
		b.rejectInteraction(r)
		return
	}
	appID, messageID, _ := strings.Cut(rest, ":")

	if err := r.Defer(true); err != nil {
		return
	}

	reviewer := interactionUser(i)
	reason := strings.TrimSpace(modalValue(i, "reason"))
	app, err := b.review.Decline(ctx, appID, reviewer.ID, reason)
	switch {
	case errors.Is(err, model.ErrAlreadyReviewed):
		b.editText(r, "This application was already reviewed.")
	case err != nil:
		b.log.Error().Err(err).Str("application_id", appID).Msg("decline failed")
		b.editText(r, genericRetryMessage)
	default:
		b.editText(r, fmt.Sprintf("Application from **%s** declined.", app.DisplayName))
		if messageID != "" {
			b.rewriteReviewMessage(i.ChannelID, messageID, app)
		}
	}
}

// updateReviewCard finalizes a DeferUpdate by rewriting the card the
// buttons live on.
func (b *Bot) updateReviewCard(r *Responder, app *model.Application) {
	msg := reviewCard(app)
	err := r.Edit(&discordgo.WebhookEdit{
		Embeds:     &msg.Embeds,
		Components: &msg.Components,
	})
	if err != nil {
		b.log.Error().Err(err).Str("application_id", app.ID).Msg("failed to update review card")
	}
}

// rewriteReviewMessage edits the review card outside the interaction
// lifecycle, after a modal round-trip detached us from the message.
func (b *Bot) rewriteReviewMessage(channelID, messageID string, app *model.Application) {
	msg := reviewCard(app)
	_, err := b.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embeds:     &msg.Embeds,
		Components: &msg.Components,
	})
	if err != nil {
		b.log.Warn().Err(err).Str("application_id", app.ID).Msg("failed to rewrite review card")
	}
}

type reviewMessage struct {
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

func reviewCard(app *model.Application) reviewMessage {
	embed := &discordgo.MessageEmbed{
		Title: "Whitelist Application",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Applicant", Value: app.DisplayName, Inline: true},
			{Name: "Character", Value: app.CharacterName, Inline: true},
			{Name: "Submitted", Value: app.CreatedAt.Format("2006-01-02 15:04"), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}

	var components []discordgo.MessageComponent
	switch app.Status {
	case model.ApplicationPending:
		components = []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Accept", Style: discordgo.SuccessButton, CustomID: encodeReviewID("accept", app.ID)},
				discordgo.Button{Label: "Decline", Style: discordgo.DangerButton, CustomID: encodeReviewID("decline", app.ID)},
			}},
		}
	case model.ApplicationAccepted:
		embed.Color = colorSuccess
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Outcome", Value: "Accepted", Inline: true})
	case model.ApplicationDeclined:
		embed.Color = colorDanger
		outcome := "Declined"
		if app.DeclineReason != nil {
			outcome = fmt.Sprintf("Declined: %s", *app.DeclineReason)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Outcome", Value: outcome, Inline: true})
	}
	if app.ReviewedBy != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Reviewed by", Value: fmt.Sprintf("<@%s>", *app.ReviewedBy), Inline: true})
	}

	return reviewMessage{Embeds: []*discordgo.MessageEmbed{embed}, Components: components}
}
