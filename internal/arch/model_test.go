package arch

import "testing"

func TestLabelModelAccumulatesSuffixes(t *testing.T) {
	m := Model(LabelModel("baseline_cnn"))
	m = m.Apply(ActionExpand)
	m = m.Apply(ActionExpand)
	m = m.Apply(ActionPrune)

	if m.Render() != "baseline_cnn_expanded_expanded_pruned" {
		t.Fatalf("got %q", m.Render())
	}
}

func TestLabelModelNoOpUnchanged(t *testing.T) {
	m := LabelModel("baseline_cnn")
	if got := m.Apply(ActionNoOp); got.Render() != "baseline_cnn" {
		t.Fatalf("no-op changed identifier: %q", got.Render())
	}
}

func TestStructuredModelApply(t *testing.T) {
	m := StructuredModel{ModelName: "baseline_cnn", Attrs: map[string]string{"layers": "5"}}

	got := m.Apply(ActionPrune).(StructuredModel)
	if got.Adaptation != ActionPrune {
		t.Fatalf("adaptation = %s, want %s", got.Adaptation, ActionPrune)
	}
	if got.ModelName != "baseline_cnn_pruned" {
		t.Fatalf("name = %q, want baseline_cnn_pruned", got.ModelName)
	}
	if got.Attrs["layers"] != "5" {
		t.Fatal("attributes were not carried over")
	}
	if m.Adaptation != "" || m.ModelName != "baseline_cnn" {
		t.Fatal("Apply mutated the receiver")
	}
}

func TestStructuredModelNoOpRecordsUnchanged(t *testing.T) {
	m := StructuredModel{ModelName: "baseline_cnn"}
	got := m.Apply(ActionNoOp).(StructuredModel)
	if got.Adaptation != ActionNoOp {
		t.Fatalf("adaptation = %s, want %s", got.Adaptation, ActionNoOp)
	}
}

func TestStructuredModelGeneratedName(t *testing.T) {
	m := StructuredModel{}
	got := m.Apply(ActionExpand).(StructuredModel)
	if got.ModelName != "model_expanded" {
		t.Fatalf("name = %q, want model_expanded", got.ModelName)
	}
}
