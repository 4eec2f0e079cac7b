package models

// ConditionType identifies which predicate family an edge condition uses.
type ConditionType string

const (
	ConditionEntityComplete ConditionType = "entity_complete"
	ConditionIntent         ConditionType = "intent"
	ConditionSentiment      ConditionType = "sentiment"
	ConditionConfirmation   ConditionType = "confirmation"
	ConditionAvailability   ConditionType = "availability"
	ConditionTimeRange      ConditionType = "time_range"
)

// Operator selects the comparison applied by a condition. Which operators are
// meaningful depends on the condition type.
type Operator string

const (
	OperatorEquals     Operator = "equals"
	OperatorNotEquals  Operator = "not_equals"
	OperatorAllPresent Operator = "all_present"
	OperatorAnyPresent Operator = "any_present"
	OperatorInRange    Operator = "in_range"
	OperatorNotInRange Operator = "not_in_range"
)

// Edge is a directed transition between two states. Parallel edges from the
// same source are allowed; the resolver tries them in declaration order.
type Edge struct {
	FromState   string         `json:"from_state" validate:"required"`
	ToState     string         `json:"to_state"   validate:"required"`
	Condition   *EdgeCondition `json:"condition,omitempty"`
	Description string         `json:"description,omitempty"`
}

// EdgeCondition is a typed predicate over the per-turn context. Conditions are
// pure: the same input and context always produce the same boolean.
//
// Value is type-dependent: a list of entity names for entity_complete, an
// intent label for intent, a boolean for sentiment/confirmation/availability,
// and a ["H:MM", "H:MM"] pair for time_range.
type EdgeCondition struct {
	Type     ConditionType `json:"type"  validate:"required"`
	Value    any           `json:"value" validate:"required"`
	Operator Operator      `json:"operator,omitempty"`
}

// EffectiveOperator returns the operator, defaulting to equals like the wire
// format does when the field is omitted.
func (c *EdgeCondition) EffectiveOperator() Operator {
	if c.Operator == "" {
		return OperatorEquals
	}

	return c.Operator
}

// EntityNames interprets Value as the required-entity list of an
// entity_complete condition. A bare string is treated as a one-element list.
func (c *EdgeCondition) EntityNames() []string {
	switch v := c.Value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		names := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}

		return names
	default:
		return nil
	}
}

// StringValue interprets Value as a plain string (intent label).
func (c *EdgeCondition) StringValue() string {
	s, _ := c.Value.(string)

	return s
}

// BoolValue interprets Value as a boolean. The second return reports whether
// the value actually was one.
func (c *EdgeCondition) BoolValue() (bool, bool) {
	b, ok := c.Value.(bool)

	return b, ok
}

// RangeValue interprets Value as a ["start", "end"] clock-time pair.
func (c *EdgeCondition) RangeValue() (start, end string, ok bool) {
	switch v := c.Value.(type) {
	case []string:
		if len(v) == 2 {
			return v[0], v[1], true
		}
	case []any:
		if len(v) == 2 {
			s, sok := v[0].(string)
			e, eok := v[1].(string)

			if sok && eok {
				return s, e, true
			}
		}
	}

	return "", "", false
}
