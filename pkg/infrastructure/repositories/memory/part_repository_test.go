package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/repositories"
)

func TestPartRepository_SavePart(t *testing.T) {
	ctx := context.Background()
	repo := NewPartRepository(10)

	part := &entities.Part{
		ID:               "BRACKET",
		Name:             "Bracket",
		EvaluationMethod: entities.WeightedFieldEvaluation,
		PriceImportance:  5,
		ProcessSteps: []entities.PartProcessStep{
			{ID: "S1", ProcessStepID: "MILLING", ManufacturingPossibility: 1, ManufacturingSequenceNumber: 1},
		},
	}

	if err := repo.SavePart(ctx, part); err != nil {
		t.Fatalf("Failed to save part: %v", err)
	}

	retrieved, err := repo.GetPart(ctx, "BRACKET")
	if err != nil {
		t.Fatalf("Failed to get part: %v", err)
	}

	if retrieved.Name != part.Name {
		t.Errorf("Expected name %s, got %s", part.Name, retrieved.Name)
	}
	if retrieved.EvaluationMethod != part.EvaluationMethod {
		t.Errorf("Expected method %v, got %v", part.EvaluationMethod, retrieved.EvaluationMethod)
	}
	if len(retrieved.ProcessSteps) != 1 {
		t.Fatalf("Expected 1 process step, got %d", len(retrieved.ProcessSteps))
	}

	// Mutating the returned copy must not change the stored part
	retrieved.ProcessSteps[0].RequiredQuantity = 99
	again, _ := repo.GetPart(ctx, "BRACKET")
	if again.ProcessSteps[0].RequiredQuantity != 0 {
		t.Error("Expected stored part to be isolated from callers")
	}
}

func TestPartRepository_SavePart_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewPartRepository(10)

	if err := repo.SavePart(ctx, &entities.Part{ID: "DUPLICATE"}); err != nil {
		t.Fatalf("Failed to save part first time: %v", err)
	}

	err := repo.SavePart(ctx, &entities.Part{ID: "DUPLICATE", Name: "Second"})
	if !errors.Is(err, repositories.ErrPartExists) {
		t.Fatalf("Expected ErrPartExists, got %v", err)
	}
}

func TestPartRepository_UpdatePart(t *testing.T) {
	ctx := context.Background()
	repo := NewPartRepository(10)

	if err := repo.UpdatePart(ctx, &entities.Part{ID: "MISSING"}); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := repo.LoadParts([]*entities.Part{{ID: "A", Name: "old"}, {ID: "B"}}); err != nil {
		t.Fatalf("Failed to load parts: %v", err)
	}
	if err := repo.UpdatePart(ctx, &entities.Part{ID: "A", Name: "new"}); err != nil {
		t.Fatalf("Failed to update part: %v", err)
	}

	parts, err := repo.GetAllParts(ctx)
	if err != nil {
		t.Fatalf("Failed to get all parts: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(parts))
	}
	if parts[0].ID != "A" || parts[0].Name != "new" {
		t.Errorf("Expected updated part A first, got %s %q", parts[0].ID, parts[0].Name)
	}
}

func TestPartRepository_GetPart_NotFound(t *testing.T) {
	repo := NewPartRepository(0)

	_, err := repo.GetPart(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("Expected error for missing part")
	}
	if err.Error() != "part NOPE: not found" {
		t.Errorf("Unexpected error message: %v", err)
	}
}
