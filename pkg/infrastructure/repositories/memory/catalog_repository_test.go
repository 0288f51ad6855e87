package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

func TestCatalogRepository_LoadCatalog(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository()
	repo.AddRequirement(entities.Requirement{ID: "MATERIAL", Name: "material", DataType: entities.DataTypeStr})
	repo.AddProcessStep(entities.ProcessStep{ID: "MILLING", Name: "Milling"})
	repo.AddSkill(entities.Skill{ID: "MILL", ProcessStepID: "MILLING"})
	repo.AddConsumable(entities.Consumable{ID: "POWER", Unit: "kWh"})
	repo.AddResource(entities.Resource{
		ID: "CNC",
		Skills: []entities.ResourceSkill{
			{ID: "CNC_MILL", ResourceID: "CNC", SkillID: "MILL"},
		},
	})

	catalog, err := repo.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	if _, ok := catalog.ResourceSkill("CNC_MILL"); !ok {
		t.Error("Expected resource skill CNC_MILL in catalog")
	}

	again, _ := repo.LoadCatalog(ctx)
	if again != catalog {
		t.Error("Expected the snapshot to be reused while the data is unchanged")
	}

	repo.AddConsumable(entities.Consumable{ID: "COOLANT"})
	changed, err := repo.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("Failed to reload catalog: %v", err)
	}
	if changed == catalog {
		t.Error("Expected a new snapshot after adding data")
	}
	if len(changed.Consumables()) != 2 || len(catalog.Consumables()) != 1 {
		t.Error("Expected old snapshot to remain unchanged")
	}
}

func TestCatalogRepository_InvalidReferences(t *testing.T) {
	repo := NewCatalogRepository()
	repo.AddSkill(entities.Skill{ID: "MILL", ProcessStepID: "MILLING"})

	_, err := repo.LoadCatalog(context.Background())
	if err == nil {
		t.Fatal("Expected error for unknown process step")
	}
	if !strings.Contains(err.Error(), "skill MILL: unknown process step MILLING") {
		t.Errorf("Unexpected error message: %v", err)
	}
}
