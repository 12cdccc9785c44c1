package discord

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Component custom ids route interactions back to their handler. Static
// ids are plain; wizard ids carry the accumulated selections, because
// there is no server-side wizard session to thread them through.
const (
	idClockIn        = "duty:clockin"
	idClockOff       = "duty:clockoff"
	idClockOffSubmit = "duty:clockoff_submit"
	idStatus         = "duty:status"
	idEditProfile    = "profile:edit"

	wizardPrefix = "wizard"
	reviewPrefix = "review"
)

// Wizard steps, each one component interaction.
const (
	stepDepartment = "dept"
	stepRank       = "rank"
	stepForm       = "form"
)

// Wizard flows.
const (
	FlowFirstTimeSetup = "first_time_setup"
	FlowEditProfile    = "edit_profile"
)

// ErrMalformedWizardState means a wizard custom id did not parse: a
// stale component from an old panel, or an id this bot never minted.
// The wizard fails closed on it rather than guessing.
var ErrMalformedWizardState = errors.New("malformed wizard state")

// WizardState is the progress a wizard interaction carries. It only
// lives inside custom ids; broken chains cannot be recovered.
type WizardState struct {
	Flow       string `json:"f"`
	Department string `json:"d,omitempty"`
	Rank       string `json:"r,omitempty"`
}

// encodeWizardID packs step + state into "wizard:<step>:<payload>". The
// payload is base64url(JSON), so department and rank values can never
// collide with the separator no matter what characters they contain,
// and decode(encode(x)) == x for every state.
func encodeWizardID(step string, st WizardState) string {
	raw, _ := json.Marshal(st)
	return fmt.Sprintf("%s:%s:%s", wizardPrefix, step, base64.RawURLEncoding.EncodeToString(raw))
}

// decodeWizardID reverses encodeWizardID. Any malformed or foreign id
// yields ErrMalformedWizardState.
func decodeWizardID(id string) (string, WizardState, error) {
	rest, ok := strings.CutPrefix(id, wizardPrefix+":")
	if !ok {
		return "", WizardState{}, ErrMalformedWizardState
	}
	step, payload, ok := strings.Cut(rest, ":")
	if !ok {
		return "", WizardState{}, ErrMalformedWizardState
	}
	switch step {
	case stepDepartment, stepRank, stepForm:
	default:
		return "", WizardState{}, ErrMalformedWizardState
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", WizardState{}, ErrMalformedWizardState
	}
	var st WizardState
	if err := json.Unmarshal(raw, &st); err != nil {
		return "", WizardState{}, ErrMalformedWizardState
	}
	if st.Flow != FlowFirstTimeSetup && st.Flow != FlowEditProfile {
		return "", WizardState{}, ErrMalformedWizardState
	}
	return step, st, nil
}

// encodeReviewID packs "review:<action>:<application id>".
func encodeReviewID(action, appID string) string {
	return fmt.Sprintf("%s:%s:%s", reviewPrefix, action, appID)
}

// decodeReviewID reverses encodeReviewID.
func decodeReviewID(id string) (action, appID string, ok bool) {
	rest, found := strings.CutPrefix(id, reviewPrefix+":")
	if !found {
		return "", "", false
	}
	return strings.Cut(rest, ":")
}
