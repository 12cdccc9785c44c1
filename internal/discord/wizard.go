package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"

	"github.com/bwmarrin/discordgo"
)

const wizardRetryMessage = "That menu is no longer valid. Please restart from the duty panel."

// startWizard renders the first wizard step (department selection) into
// an already-acknowledged interaction. Everything the later steps need
// travels in the component custom ids; nothing is kept server-side.
func (b *Bot) startWizard(r *Responder, flow, prompt string) {
	options := make([]discordgo.SelectMenuOption, 0, len(model.Departments))
	for _, dept := range model.Departments {
		options = append(options, discordgo.SelectMenuOption{Label: dept, Value: dept})
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    encodeWizardID(stepDepartment, WizardState{Flow: flow}),
				Placeholder: "Select your department",
				Options:     options,
			},
		}},
	}
	if err := r.Edit(&discordgo.WebhookEdit{Content: &prompt, Components: &components}); err != nil {
		b.log.Error().Err(err).Msg("failed to render wizard start")
	}
}

// handleWizardComponent advances the wizard one step. The step and the
// selections made so far come back out of the custom id; a malformed or
// stale id fails closed with a generic retry message.
func (b *Bot) handleWizardComponent(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	step, st, err := decodeWizardID(i.MessageComponentData().CustomID)
	if err != nil {
		b.failWizard(r)
		return
	}

	values := i.MessageComponentData().Values
	if len(values) != 1 {
		b.failWizard(r)
		return
	}
	selected := values[0]

	switch step {
	case stepDepartment:
		b.wizardSelectDepartment(r, st, selected)
	case stepRank:
		b.wizardSelectRank(r, st, selected)
	default:
		b.failWizard(r)
	}
}

// wizardSelectDepartment responds with the rank menu for the chosen
// department. Rank lists are in-memory, so a direct reply is fine.
func (b *Bot) wizardSelectDepartment(r *Responder, st WizardState, dept string) {
	ranks, ok := model.DepartmentRanks[dept]
	if !ok {
		b.failWizard(r)
		return
	}
	st.Department = dept

	options := make([]discordgo.SelectMenuOption, 0, len(ranks))
	for _, rank := range ranks {
		options = append(options, discordgo.SelectMenuOption{Label: rank, Value: rank})
	}

	err := r.Reply(&discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Department: **%s**\nNow pick your rank.", dept),
		Flags:   discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    encodeWizardID(stepRank, st),
					Placeholder: "Select your rank",
					Options:     options,
				},
			}},
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("failed to render rank step")
	}
}

// wizardSelectRank opens the final form. The modal must be the very
// first response to this interaction, so no deferral is allowed here.
func (b *Bot) wizardSelectRank(r *Responder, st WizardState, rank string) {
	if st.Department == "" || !validRank(st.Department, rank) {
		b.failWizard(r)
		return
	}
	st.Rank = rank

	err := r.Modal(&discordgo.InteractionResponseData{
		CustomID: encodeWizardID(stepForm, st),
		Title:    "Duty Profile",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "character_name",
					Label:       "Character name",
					Style:       discordgo.TextInputShort,
					Placeholder: "e.g. John Doe",
					Required:    true,
					MaxLength:   100,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "call_sign",
					Label:       "Call sign",
					Style:       discordgo.TextInputShort,
					Placeholder: "e.g. A-12",
					Required:    true,
					MaxLength:   20,
				},
			}},
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("failed to open profile form")
	}
}

// handleWizardSubmit completes the wizard: upserts the profile, and for
// a first-time setup also clocks the member in.
func (b *Bot) handleWizardSubmit(ctx context.Context, r *Responder, i *discordgo.InteractionCreate) {
	step, st, err := decodeWizardID(i.ModalSubmitData().CustomID)
	if err != nil || step != stepForm || st.Department == "" || st.Rank == "" {
		b.failWizard(r)
		return
	}

	if err := r.Defer(true); err != nil {
		return
	}

	characterName := strings.TrimSpace(modalValue(i, "character_name"))
	callSign := strings.TrimSpace(modalValue(i, "call_sign"))
	if characterName == "" || callSign == "" {
		b.editText(r, "Character name and call sign are both required. Please restart from the duty panel.")
		return
	}

	user := interactionUser(i)
	profile := &model.UserProfile{
		IdentityID:    user.ID,
		DisplayName:   memberDisplayName(i),
		CharacterName: characterName,
		Department:    st.Department,
		Rank:          st.Rank,
		CallSign:      callSign,
	}
	if err := b.profiles.Upsert(ctx, profile); err != nil {
		b.log.Error().Err(err).Str("identity_id", user.ID).Msg("profile upsert failed")
		b.editText(r, genericRetryMessage)
		return
	}

	if st.Flow == FlowEditProfile {
		b.editEmbed(r, profileEmbed("Profile Updated", profile), nil)
		return
	}

	// First-time setup clocks in right away.
	session, err := b.duty.ClockIn(ctx, user.ID, profile.DisplayName, nil)
	switch {
	case errors.Is(err, model.ErrAlreadyActive):
		b.editText(r, "Profile saved. You are already on duty.")
	case err != nil:
		b.log.Error().Err(err).Str("identity_id", user.ID).Msg("setup clock-in failed")
		b.editText(r, "Profile saved, but clocking in failed. Please use the Clock In button.")
	default:
		embed := profileEmbed("Profile Created, You Are On Duty", profile)
		embed.Color = colorSuccess
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Shift started", Value: session.ClockIn.Format("15:04 MST"), Inline: true,
		})
		b.editEmbed(r, embed, nil)
	}
}

// failWizard rejects a broken wizard chain with a generic retry
// message, using whichever response slot is still open.
func (b *Bot) failWizard(r *Responder) {
	var err error
	switch r.State() {
	case StateFresh:
		err = r.Reply(&discordgo.InteractionResponseData{
			Content: wizardRetryMessage,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
	case StateAcknowledged:
		msg := wizardRetryMessage
		err = r.Edit(&discordgo.WebhookEdit{Content: &msg})
	default:
		return
	}
	if err != nil {
		b.log.Error().Err(err).Msg("failed to reject wizard interaction")
	}
}

func validRank(dept, rank string) bool {
	for _, r := range model.DepartmentRanks[dept] {
		if r == rank {
			return true
		}
	}
	return false
}

func profileEmbed(title string, p *model.UserProfile) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Character", Value: p.CharacterName, Inline: true},
			{Name: "Department", Value: p.Department, Inline: true},
			{Name: "Rank", Value: p.Rank, Inline: true},
			{Name: "Call Sign", Value: p.CallSign, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
}
