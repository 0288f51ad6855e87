package entities

import "testing"

func TestPart_Validation(t *testing.T) {
	validPart, err := NewPart("BRACKET", "Mounting Bracket", CriticEvaluation, 5, 1, 1)
	if err != nil {
		t.Fatalf("Expected valid part creation to succeed: %v", err)
	}
	if validPart.EvaluationMethod != CriticEvaluation {
		t.Errorf("Expected evaluation method %v, got %v", CriticEvaluation, validPart.EvaluationMethod)
	}

	testCases := []struct {
		name        string
		id          PartID
		method      EvaluationMethod
		price       int
		time        int
		co2         int
		expectError string
	}{
		{"empty id", "", FieldEvaluation, 1, 1, 1, "part id cannot be empty"},
		{"method zero", "P", 0, 1, 1, 1, "part P: evaluation method must be between 1 and 3, got 0"},
		{"method four", "P", 4, 1, 1, 1, "part P: evaluation method must be between 1 and 3, got 4"},
		{"negative price importance", "P", FieldEvaluation, -1, 1, 1, "part P: price importance must be between 0 and 10, got -1"},
		{"time importance too high", "P", FieldEvaluation, 1, 11, 1, "part P: time importance must be between 0 and 10, got 11"},
		{"co2 importance too high", "P", FieldEvaluation, 1, 1, 12, "part P: co2 importance must be between 0 and 10, got 12"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPart(tc.id, "desc", tc.method, tc.price, tc.time, tc.co2)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestPartProcessStep_Validation(t *testing.T) {
	step, err := NewPartProcessStep("S1", "MILLING", 10, 1, 1)
	if err != nil {
		t.Fatalf("Expected valid step creation to succeed: %v", err)
	}
	if step.RequiredQuantity != 10 {
		t.Errorf("Expected required quantity 10, got %g", step.RequiredQuantity)
	}

	testCases := []struct {
		name        string
		id          PartProcessStepID
		processStep ProcessStepID
		quantity    float64
		possibility int
		sequence    int
		expectError string
	}{
		{"empty id", "", "MILLING", 1, 1, 1, "part process step id cannot be empty"},
		{"empty process step", "S", "", 1, 1, 1, "part process step S: process step cannot be empty"},
		{"negative quantity", "S", "MILLING", -2, 1, 1, "part process step S: required quantity cannot be negative, got -2"},
		{"zero possibility", "S", "MILLING", 1, 0, 1, "part process step S: manufacturing possibility must be positive, got 0"},
		{"negative sequence", "S", "MILLING", 1, 1, -1, "part process step S: sequence number cannot be negative, got -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPartProcessStep(tc.id, tc.processStep, tc.quantity, tc.possibility, tc.sequence)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestConstraint_UnknownOperator(t *testing.T) {
	_, err := NewConstraint("C1", "MATERIAL", "~", "steel", false)
	if err == nil {
		t.Fatal("Expected error for unknown operator")
	}
	if err.Error() != `constraint C1: unknown operator "~"` {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestPart_OrderedProcessSteps(t *testing.T) {
	part := &Part{ID: "P"}
	part.AddProcessStep(PartProcessStep{ID: "B2", ManufacturingPossibility: 2, ManufacturingSequenceNumber: 2})
	part.AddProcessStep(PartProcessStep{ID: "A2", ManufacturingPossibility: 1, ManufacturingSequenceNumber: 2})
	part.AddProcessStep(PartProcessStep{ID: "B1", ManufacturingPossibility: 2, ManufacturingSequenceNumber: 1})
	part.AddProcessStep(PartProcessStep{ID: "A1", ManufacturingPossibility: 1, ManufacturingSequenceNumber: 1})

	steps := part.OrderedProcessSteps()
	expected := []PartProcessStepID{"A1", "A2", "B1", "B2"}
	for i, id := range expected {
		if steps[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, steps[i].ID)
		}
	}

	possibilities := part.ManufacturingPossibilities()
	if len(possibilities) != 2 || possibilities[0] != 1 || possibilities[1] != 2 {
		t.Errorf("Expected possibilities [1 2], got %v", possibilities)
	}
}

func TestPartProcessStep_OptionalAlternatives(t *testing.T) {
	step := PartProcessStep{
		ID: "S1",
		Constraints: []Constraint{
			{ID: "C1", RequirementID: "MATERIAL", Operator: OpEqual, Value: "plastic", Optional: true},
			{ID: "C2", RequirementID: "MATERIAL", Operator: OpEqual, Value: "metal", Optional: true},
			{ID: "C3", RequirementID: "MATERIAL", Operator: OpEqual, Value: "wood", Optional: false},
			{ID: "C4", RequirementID: "LENGTH", Operator: OpLess, Value: "10", Optional: true},
		},
	}

	alternatives := step.OptionalAlternatives(0)
	if len(alternatives) != 1 {
		t.Fatalf("Expected 1 alternative, got %d", len(alternatives))
	}
	if alternatives[0].ID != "C2" {
		t.Errorf("Expected alternative C2, got %s", alternatives[0].ID)
	}

	// Alternatives are found by position, so shared IDs do not hide each other
	unnamed := PartProcessStep{
		Constraints: []Constraint{
			{RequirementID: "MATERIAL", Operator: OpEqual, Value: "plastic", Optional: true},
			{RequirementID: "MATERIAL", Operator: OpEqual, Value: "metal", Optional: true},
		},
	}
	alternatives = unnamed.OptionalAlternatives(1)
	if len(alternatives) != 1 || alternatives[0].Value != "plastic" {
		t.Errorf("Expected plastic as the only alternative, got %v", alternatives)
	}
}

func TestEvaluationMethod_String(t *testing.T) {
	if FieldEvaluation.String() != "FieldEvaluation" {
		t.Errorf("Unexpected string %s", FieldEvaluation.String())
	}
	if EvaluationMethod(7).String() != "Unknown" {
		t.Errorf("Expected Unknown for undefined method")
	}
	if EvaluationMethod(7).IsValid() {
		t.Error("Expected method 7 to be invalid")
	}
}
