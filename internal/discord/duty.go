package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"

	"github.com/bwmarrin/discordgo"
)

const (
	colorInfo    = 0x00C8FF
	colorSuccess = 0x2ECC71
	colorDanger  = 0xE74C3C
)

const footerText = "Mayaa Roleplay"

const genericRetryMessage = "Something went wrong. Please try again from the duty panel."

// handleDutyPanel posts the persistent duty panel as the response to
// the /duty command.
func (b *Bot) handleDutyPanel(ctx context.Context, r *Responder) {
	embed := &discordgo.MessageEmbed{
		Title:       "Duty Management",
		Description: "Clock in when your shift starts and clock off when it ends.\nUse **My Status** to see your current shift and hours.",
		Color:       colorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Clock In", Style: discordgo.SuccessButton, CustomID: idClockIn},
			discordgo.Button{Label: "Clock Off", Style: discordgo.DangerButton, CustomID: idClockOff},
			discordgo.Button{Label: "My Status", Style: discordgo.SecondaryButton, CustomID: idStatus},
		}},
	}

	if err := r.Reply(&discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}); err != nil {
		b.log.Error().Err(err).Msg("failed to post duty panel")
	}
}

// handleClockIn opens a shift. The store work can outrun the 3-second
// acknowledgment window, so the interaction is deferred first and
// finalized with an edit.
func (b *Bot) handleClockIn(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	if err := r.Defer(true); err != nil {
		return
	}

	user := interactionUser(i)
	session, err := b.duty.ClockIn(ctx, user.ID, memberDisplayName(i), nil)
	switch {
	case errors.Is(err, model.ErrNoProfile):
		b.startWizard(r, FlowFirstTimeSetup,
			"Welcome! Before your first shift, set up your duty profile.\nPick your department to get started.")
	case errors.Is(err, model.ErrAlreadyActive):
		b.editText(r, "You are already on duty. Clock off before starting a new shift.")
	case err != nil:
		b.log.Error().Err(err).Str("identity_id", user.ID).Msg("clock-in failed")
		b.editText(r, genericRetryMessage)
	default:
		embed := &discordgo.MessageEmbed{
			Title: "Clocked In",
			Color: colorSuccess,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Character", Value: session.CharacterName, Inline: true},
				{Name: "Department", Value: session.Department, Inline: true},
				{Name: "Call Sign", Value: session.CallSign, Inline: true},
				{Name: "Shift started", Value: session.ClockIn.Format("15:04 MST"), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: footerText},
		}
		b.editEmbed(r, embed, nil)
	}
}

// handleClockOff opens the shift-notes modal. A modal must be the very
// first response, so no deferral happens here.
func (b *Bot) handleClockOff(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	err := r.Modal(&discordgo.InteractionResponseData{
		CustomID: idClockOffSubmit,
		Title:    "Clock Off",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "notes",
					Label:       "Shift notes (optional)",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Anything notable from this shift",
					Required:    false,
					MaxLength:   500,
				},
			}},
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("failed to open clock-off modal")
	}
}

// handleClockOffSubmit closes the shift with the submitted notes.
func (b *Bot) handleClockOffSubmit(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	if err := r.Defer(true); err != nil {
		return
	}

	var notes *string
	if v := modalValue(i, "notes"); v != "" {
		notes = &v
	}

	user := interactionUser(i)
	session, err := b.duty.ClockOut(ctx, user.ID, notes)
	switch {
	case errors.Is(err, model.ErrNoActiveSession):
		b.editText(r, "You are not on duty right now.")
	case err != nil:
		b.log.Error().Err(err).Str("identity_id", user.ID).Msg("clock-out failed")
		b.editText(r, genericRetryMessage)
	default:
		hours := 0.0
		if session.DurationHours != nil {
			hours = *session.DurationHours
		}
		embed := &discordgo.MessageEmbed{
			Title: "Clocked Off",
			Color: colorDanger,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Department", Value: session.Department, Inline: true},
				{Name: "Shift length", Value: fmt.Sprintf("%.2f h", hours), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: footerText},
		}
		b.editEmbed(r, embed, nil)
	}
}

// handleStatus shows the member's profile, current shift, and hours.
func (b *Bot) handleStatus(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	if err := r.Defer(true); err != nil {
		return
	}

	user := interactionUser(i)
	profile, err := b.duty.Profile(ctx, user.ID)
	if err != nil {
		b.log.Error().Err(err).Str("identity_id", user.ID).Msg("status lookup failed")
		b.editText(r, genericRetryMessage)
		return
	}
	if profile == nil {
		b.startWizard(r, FlowFirstTimeSetup,
			"You don't have a duty profile yet. Pick your department to set one up.")
		return
	}

	active, err := b.duty.ActiveSession(ctx, user.ID)
	if err != nil {
		b.log.Error().Err(err).Str("identity_id", user.ID).Msg("status lookup failed")
		b.editText(r, genericRetryMessage)
		return
	}
	stats, err := b.duty.UserStatistics(ctx, user.ID)
	if err != nil {
		b.log.Error().Err(err).Str("identity_id", user.ID).Msg("status lookup failed")
		b.editText(r, genericRetryMessage)
		return
	}

	state := "Off duty"
	color := colorInfo
	if active != nil {
		state = fmt.Sprintf("On duty since %s", active.ClockIn.Format("15:04 MST"))
		color = colorSuccess
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Duty Status: %s", profile.CharacterName),
		Description: state,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Department", Value: profile.Department, Inline: true},
			{Name: "Rank", Value: profile.Rank, Inline: true},
			{Name: "Call Sign", Value: profile.CallSign, Inline: true},
			{Name: "Today", Value: fmt.Sprintf("%.2f h", stats.TodayHours), Inline: true},
			{Name: "This week", Value: fmt.Sprintf("%.2f h", stats.WeeklyHours), Inline: true},
			{Name: "All time", Value: fmt.Sprintf("%.2f h", stats.TotalHours), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footerText},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Edit Profile", Style: discordgo.SecondaryButton, CustomID: idEditProfile},
		}},
	}
	b.editEmbed(r, embed, components)
}

// handleEditProfile starts the profile wizard in edit mode.
func (b *Bot) handleEditProfile(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	if err := r.Defer(true); err != nil {
		return
	}
	b.startWizard(r, FlowEditProfile, "Pick your department to update your duty profile.")
}

func (b *Bot) editText(r *Responder, content string) {
	if err := r.Edit(&discordgo.WebhookEdit{Content: &content}); err != nil {
		b.log.Error().Err(err).Msg("failed to finalize interaction")
	}
}

func (b *Bot) editEmbed(r *Responder, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	edit := &discordgo.WebhookEdit{Embeds: &[]*discordgo.MessageEmbed{embed}}
	if components != nil {
		edit.Components = &components
	}
	if err := r.Edit(edit); err != nil {
		b.log.Error().Err(err).Msg("failed to finalize interaction")
	}
}

// modalValue pulls one text input value out of a modal submit.
func modalValue(i *discordgo.InteractionCreate, customID string) string {
	for _, row := range i.ModalSubmitData().Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}
