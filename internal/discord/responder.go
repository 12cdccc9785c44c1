package discord

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// ResponseState tracks where one inbound interaction sits in its
// response lifecycle. Every interaction must end in exactly one
// terminal response; the Responder makes the legal transitions the only
// ones that reach the gateway.
type ResponseState int

const (
	// StateFresh: no response issued yet. Modal, Defer, DeferUpdate and
	// Reply are legal.
	StateFresh ResponseState = iota
	// StateAcknowledged: placeholder sent, final content pending. Only
	// Edit is legal.
	StateAcknowledged
	// StateFinalized: terminal response issued. Only Followup is legal.
	StateFinalized
	// StateExpired: the platform's validity window elapsed. Nothing is
	// legal; attempts are logged and dropped.
	StateExpired
)

func (s ResponseState) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateAcknowledged:
		return "acknowledged"
	case StateFinalized:
		return "finalized"
	case StateExpired:
		return "expired"
	}
	return "unknown"
}

// Discord invalidates interaction tokens 15 minutes after delivery.
const interactionTTL = 15 * time.Minute

var (
	// ErrIllegalResponse means the requested operation is not legal from
	// the current state. Surfaced to the caller before anything reaches
	// the gateway.
	ErrIllegalResponse = errors.New("illegal interaction response for current state")

	// ErrInteractionExpired means the validity window elapsed. There is
	// no response channel left; callers log and drop.
	ErrInteractionExpired = errors.New("interaction token expired")
)

// InteractionAPI is the slice of the gateway session the Responder
// talks to. *discordgo.Session satisfies it.
type InteractionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Responder wraps one inbound interaction and guards its
// acknowledge/finalize sequencing. Not safe for concurrent use; each
// interaction is handled by a single goroutine.
type Responder struct {
	s           InteractionAPI
	interaction *discordgo.Interaction
	state       ResponseState
	received    time.Time
	log         zerolog.Logger
}

func NewResponder(s InteractionAPI, interaction *discordgo.Interaction, log zerolog.Logger) *Responder {
	return &Responder{
		s:           s,
		interaction: interaction,
		state:       StateFresh,
		received:    time.Now(),
		log:         log.With().Str("interaction_id", interaction.ID).Logger(),
	}
}

// State returns the current lifecycle state, applying expiry first.
func (r *Responder) State() ResponseState {
	if r.state != StateExpired && time.Since(r.received) > interactionTTL {
		r.state = StateExpired
	}
	return r.state
}

// Modal shows a modal form. It must be the very first response:
// acknowledging first makes a modal impossible, so this is only legal
// from Fresh.
func (r *Responder) Modal(data *discordgo.InteractionResponseData) error {
	if err := r.require(StateFresh, "modal"); err != nil {
		return err
	}
	err := r.s.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
	return r.advance(err, StateFinalized, "modal")
}

// Defer acknowledges with a placeholder ("thinking...") so slow work
// can finalize later via Edit.
func (r *Responder) Defer(ephemeral bool) error {
	if err := r.require(StateFresh, "defer"); err != nil {
		return err
	}
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := r.s.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
	return r.advance(err, StateAcknowledged, "defer")
}

// DeferUpdate acknowledges a component interaction without a visible
// placeholder; Edit then rewrites the message the component lives on.
func (r *Responder) DeferUpdate() error {
	if err := r.require(StateFresh, "defer_update"); err != nil {
		return err
	}
	err := r.s.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	return r.advance(err, StateAcknowledged, "defer_update")
}

// Reply issues a direct terminal response without a prior
// acknowledgment.
func (r *Responder) Reply(data *discordgo.InteractionResponseData) error {
	if err := r.require(StateFresh, "reply"); err != nil {
		return err
	}
	err := r.s.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	return r.advance(err, StateFinalized, "reply")
}

// Edit finalizes an acknowledged interaction by replacing the
// placeholder (or, after DeferUpdate, the component's message).
func (r *Responder) Edit(edit *discordgo.WebhookEdit) error {
	if err := r.require(StateAcknowledged, "edit"); err != nil {
		return err
	}
	_, err := r.s.InteractionResponseEdit(r.interaction, edit)
	return r.advance(err, StateFinalized, "edit")
}

// Followup appends an extra message after the terminal response. Used
// when a further message is unavoidable, never as a second reply.
func (r *Responder) Followup(ephemeral bool, content string) error {
	if err := r.require(StateFinalized, "followup"); err != nil {
		return err
	}
	params := &discordgo.WebhookParams{Content: content}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := r.s.FollowupMessageCreate(r.interaction, true, params)
	if err != nil && !r.benign(err) {
		return fmt.Errorf("followup: %w", err)
	}
	return nil
}

func (r *Responder) require(want ResponseState, op string) error {
	switch state := r.State(); state {
	case StateExpired:
		r.log.Warn().Str("op", op).Msg("interaction expired, response dropped")
		return ErrInteractionExpired
	case want:
		return nil
	default:
		r.log.Error().Str("op", op).Str("state", state.String()).Msg("illegal interaction response sequence")
		return fmt.Errorf("%w: %s from %s", ErrIllegalResponse, op, state)
	}
}

// advance moves to next unless the platform call failed for a real
// reason. "Already acknowledged" from the platform is benign: someone
// (a retry, a gateway replay) got there first, so the slot is filled
// and the lifecycle did complete.
func (r *Responder) advance(err error, next ResponseState, op string) error {
	if err != nil {
		if !r.benign(err) {
			return fmt.Errorf("%s: %w", op, err)
		}
		r.log.Warn().Str("op", op).Msg("interaction already acknowledged, treating as success")
	}
	r.state = next
	return nil
}

func (r *Responder) benign(err error) bool {
	var rest *discordgo.RESTError
	return errors.As(err, &rest) && rest.Message != nil &&
		rest.Message.Code == discordgo.ErrCodeInteractionHasAlreadyBeenAcknowledged
}
