package arch

import "fmt"

// #region model-interface

// Model is the tagged-variant model representation. Both variants expose the
// same apply-adaptation capability; Apply returns a new value and never
// mutates the receiver.
type Model interface {
	Apply(action AdaptationAction) Model
	Name() string
	Render() string
}

// #endregion model-interface

// #region label-model

// LabelModel is the label variant: a single identifier that accumulates
// adaptation-history suffixes.
type LabelModel string

// Apply appends the action suffix for prune/expand and leaves the identifier
// byte-for-byte unchanged for a no-op.
func (m LabelModel) Apply(action AdaptationAction) Model {
	if action == ActionNoOp {
		return m
	}
	return LabelModel(fmt.Sprintf("%s_%s", string(m), action))
}

// Name returns the identifier.
func (m LabelModel) Name() string { return string(m) }

// Render returns the identifier.
func (m LabelModel) Render() string { return string(m) }

// #endregion label-model

// #region structured-model

// StructuredModel is the structured variant: a named record with descriptive
// attributes and an adaptation tag.
type StructuredModel struct {
	ModelName  string
	Attrs      map[string]string
	Adaptation AdaptationAction
}

// Apply records the action in the adaptation tag (no-ops included) and
// suffixes the name, generating a model_<action> name when none was set.
func (m StructuredModel) Apply(action AdaptationAction) Model {
	out := StructuredModel{
		ModelName:  m.ModelName,
		Attrs:      make(map[string]string, len(m.Attrs)),
		Adaptation: action,
	}
	for k, v := range m.Attrs {
		out.Attrs[k] = v
	}
	if out.ModelName != "" {
		out.ModelName = fmt.Sprintf("%s_%s", out.ModelName, action)
	} else {
		out.ModelName = fmt.Sprintf("model_%s", action)
	}
	return out
}

// Name returns the record's name field.
func (m StructuredModel) Name() string { return m.ModelName }

// Render returns a compact human-readable form.
func (m StructuredModel) Render() string {
	return fmt.Sprintf("%s (adaptation=%s, attrs=%d)", m.ModelName, m.Adaptation, len(m.Attrs))
}

// #endregion structured-model
