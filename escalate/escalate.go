// Package escalate classifies failed mutation responses into the two
// escalation tiers the UI knows how to render: a dismissible transient
// notice, or a blocking surface with an optional remediation link.
package escalate

import (
	"encoding/json"
	"errors"

	"github.com/openseries/roster-system/models"
)

// Tier is the escalation level of a failure.
type Tier string

const (
	// TierTransient failures are self-explanatory; an ambient, dismissible
	// notice with the message is enough.
	TierTransient Tier = "transient"
	// TierActionable failures need the user to resolve a precondition
	// elsewhere before retrying; they get a blocking surface.
	TierActionable Tier = "actionable"
)

// ParseResult is the tagged outcome of decoding an error body. Exactly one
// of Structured or Raw carries the payload; callers switch on Structured
// being non-nil rather than on a decode error.
type ParseResult struct {
	Structured *models.MutationError
	Raw        string
}

// Parse attempts to decode raw as a MutationError body. Anything that is
// not a JSON object with a message keeps the raw text.
func Parse(raw string) ParseResult {
	var me models.MutationError
	if err := json.Unmarshal([]byte(raw), &me); err != nil || me.Message == "" {
		return ParseResult{Raw: raw}
	}
	return ParseResult{Structured: &me}
}

// Surface is what the caller should render for a classified failure.
type Surface struct {
	Tier       Tier
	Text       string
	ActionHref string
	ActionName string
}

// Classify maps a failed operation's error onto a Surface. A structured
// MutationError carrying a description escalates to TierActionable, with the
// remediation link attached only when both action fields are present.
// Everything else stays transient with the best text available.
func Classify(err error) Surface {
	var me *models.MutationError
	if errors.As(err, &me) {
		return classifyStructured(me)
	}

	parsed := Parse(err.Error())
	if parsed.Structured == nil {
		return Surface{Tier: TierTransient, Text: parsed.Raw}
	}
	return classifyStructured(parsed.Structured)
}

func classifyStructured(me *models.MutationError) Surface {
	if me.Description == "" {
		return Surface{Tier: TierTransient, Text: me.Message}
	}
	s := Surface{Tier: TierActionable, Text: me.Description}
	if me.HasAction() {
		s.ActionHref = me.ActionHref
		s.ActionName = me.ActionName
	}
	return s
}
