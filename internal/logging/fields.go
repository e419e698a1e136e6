package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRunID identifies a single sync run.
	FieldRunID = "run_id"
	// FieldKind is the catalog kind (servant or ce).
	FieldKind = "kind"
	// FieldEntryIdx is the catalog index of the entry being processed.
	FieldEntryIdx = "entry_idx"
	// FieldDecisionType names the decision recorded by DecisionAttrs.
	FieldDecisionType = "decision_type"
)
