package domain

import (
	"encoding/json"
	"fmt"

	"github.com/twmigrate/twmigrate/internal/domain/transform"
)

// Action kind tags used in the persisted plan format.
const (
	ActionReplace  = "replace"
	ActionExtract  = "extract"
	ActionTokenize = "tokenize"
	ActionRemove   = "remove"
)

// FixAction is a closed sum over the four edit kinds. Every consumption
// site (previews, transformation dispatch, dependency scanning) switches
// exhaustively over the concrete types; adding a kind means touching each
// switch, not silently falling through.
type FixAction interface {
	isFixAction()

	// Kind returns the persisted tag for this action.
	Kind() string
	// Describe returns a one-line human description for reports.
	Describe() string
	// Preview returns the before/after texts shown for this edit.
	Preview() Preview
}

// ReplaceAction swaps one class for another in place.
type ReplaceAction struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ExtractAction promotes a repeated class pattern into a named utility.
type ExtractAction struct {
	Pattern     string `json:"pattern"`
	UtilityName string `json:"utilityName"`
}

// TokenizeAction lifts an arbitrary value into a design token.
type TokenizeAction struct {
	Value     string `json:"value"`
	TokenName string `json:"tokenName"`
}

// RemoveAction deletes a class outright.
type RemoveAction struct {
	ClassName string `json:"className"`
}

func (ReplaceAction) isFixAction()  {}
func (ExtractAction) isFixAction()  {}
func (TokenizeAction) isFixAction() {}
func (RemoveAction) isFixAction()   {}

func (ReplaceAction) Kind() string  { return ActionReplace }
func (ExtractAction) Kind() string  { return ActionExtract }
func (TokenizeAction) Kind() string { return ActionTokenize }
func (RemoveAction) Kind() string   { return ActionRemove }

func (a ReplaceAction) Describe() string {
	return fmt.Sprintf("replace %q with %q", a.From, a.To)
}

func (a ExtractAction) Describe() string {
	return fmt.Sprintf("extract %q into utility %q", a.Pattern, a.UtilityName)
}

func (a TokenizeAction) Describe() string {
	return fmt.Sprintf("tokenize %q as %s", a.Value, a.TokenName)
}

func (a RemoveAction) Describe() string {
	return fmt.Sprintf("remove %q", a.ClassName)
}

func (a ReplaceAction) Preview() Preview {
	return Preview{Before: a.From, After: a.To}
}

func (a ExtractAction) Preview() Preview {
	return Preview{Before: a.Pattern, After: a.UtilityName}
}

func (a TokenizeAction) Preview() Preview {
	return Preview{Before: a.Value, After: transform.TokenRef(a.Value, a.TokenName)}
}

func (a RemoveAction) Preview() Preview {
	return Preview{Before: a.ClassName, After: ""}
}

// actionEnvelope is the on-disk shape of a FixAction: a type tag plus the
// union of all variant fields.
type actionEnvelope struct {
	Type        string `json:"type"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	UtilityName string `json:"utilityName,omitempty"`
	Value       string `json:"value,omitempty"`
	TokenName   string `json:"tokenName,omitempty"`
	ClassName   string `json:"className,omitempty"`
}

func marshalAction(a FixAction) (actionEnvelope, error) {
	switch a := a.(type) {
	case ReplaceAction:
		return actionEnvelope{Type: ActionReplace, From: a.From, To: a.To}, nil
	case ExtractAction:
		return actionEnvelope{Type: ActionExtract, Pattern: a.Pattern, UtilityName: a.UtilityName}, nil
	case TokenizeAction:
		return actionEnvelope{Type: ActionTokenize, Value: a.Value, TokenName: a.TokenName}, nil
	case RemoveAction:
		return actionEnvelope{Type: ActionRemove, ClassName: a.ClassName}, nil
	default:
		return actionEnvelope{}, fmt.Errorf("unknown action type %T", a)
	}
}

func unmarshalAction(env actionEnvelope) (FixAction, error) {
	switch env.Type {
	case ActionReplace:
		return ReplaceAction{From: env.From, To: env.To}, nil
	case ActionExtract:
		return ExtractAction{Pattern: env.Pattern, UtilityName: env.UtilityName}, nil
	case ActionTokenize:
		return TokenizeAction{Value: env.Value, TokenName: env.TokenName}, nil
	case ActionRemove:
		return RemoveAction{ClassName: env.ClassName}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
}

// MarshalJSON encodes the action as a tagged envelope.
func (s MigrationStep) MarshalJSON() ([]byte, error) {
	env, err := marshalAction(s.Action)
	if err != nil {
		return nil, err
	}
	type alias MigrationStep
	return json.Marshal(struct {
		alias
		Action actionEnvelope `json:"action"`
	}{alias: alias(s), Action: env})
}

// UnmarshalJSON decodes the tagged action envelope back into its variant.
func (s *MigrationStep) UnmarshalJSON(data []byte) error {
	type alias MigrationStep
	var raw struct {
		alias
		Action actionEnvelope `json:"action"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	action, err := unmarshalAction(raw.Action)
	if err != nil {
		return err
	}
	*s = MigrationStep(raw.alias)
	s.Action = action
	return nil
}
