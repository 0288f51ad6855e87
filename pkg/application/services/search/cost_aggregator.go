package search

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/plafosus/pkg/application/dto"
	"github.com/vsinha/plafosus/pkg/domain/entities"
)

type consumableAmount struct {
	quantity decimal.Decimal
	price    decimal.Decimal
	co2      decimal.Decimal
}

func (a *consumableAmount) add(other consumableAmount) {
	a.quantity = a.quantity.Add(other.quantity)
	a.price = a.price.Add(other.price)
	a.co2 = a.co2.Add(other.co2)
}

// stepCost is the cost of one resource skill performing one part process step.
// Price and CO2 include the consumables; consumables are aligned with the catalog.
type stepCost struct {
	price       decimal.Decimal
	time        decimal.Decimal
	co2         decimal.Decimal
	consumables []consumableAmount
}

// costKey identifies the step by address, so steps sharing an ID keep their own costs
type costKey struct {
	step *entities.PartProcessStep
	rs   entities.ResourceSkillID
}

// CostAggregator builds costed permutations. Step costs are computed once per
// (step, resource skill) pairing and shared by every permutation containing it.
type CostAggregator struct {
	catalog         *entities.Catalog
	consumableIndex map[entities.ConsumableID]int

	table map[costKey]*stepCost
	mutex sync.Mutex
}

// NewCostAggregator creates an aggregator reporting every consumable of the catalog
func NewCostAggregator(catalog *entities.Catalog) *CostAggregator {
	index := make(map[entities.ConsumableID]int, len(catalog.Consumables()))
	for i, c := range catalog.Consumables() {
		index[c.ID] = i
	}
	return &CostAggregator{
		catalog:         catalog,
		consumableIndex: index,
		table:           make(map[costKey]*stepCost),
	}
}

// Build creates a permutation of the possibility assigning combination[i] to the
// i-th step, with solutions, consumable reports and totals filled in
func (a *CostAggregator) Build(
	spaceID entities.SolutionSpaceID,
	mp dto.ManufacturingPossibility,
	combination []entities.ResourceSkillID,
) (*entities.Permutation, error) {
	if len(combination) != len(mp.Steps) {
		return nil, fmt.Errorf("combination has %d resource skills for %d steps", len(combination), len(mp.Steps))
	}

	permutation := entities.NewPermutation(spaceID, mp.Number)
	permutation.Solutions = make([]entities.Solution, 0, len(mp.Steps))

	price, time, co2 := decimal.Zero, decimal.Zero, decimal.Zero
	overall := a.zeroAmounts()

	for i, sc := range mp.Steps {
		cost, err := a.cost(sc.Step, combination[i])
		if err != nil {
			return nil, err
		}

		permutation.Solutions = append(permutation.Solutions, entities.Solution{
			ID:                          entities.SolutionID(uuid.NewString()),
			PermutationID:               permutation.ID,
			PartProcessStepID:           sc.Step.ID,
			ResourceSkillID:             combination[i],
			ManufacturingSequenceNumber: sc.Step.ManufacturingSequenceNumber,
			Quantity:                    sc.Step.RequiredQuantity,
			Price:                       cost.price.InexactFloat64(),
			Time:                        cost.time.InexactFloat64(),
			CO2:                         cost.co2.InexactFloat64(),
			Consumables:                 a.report(cost.consumables, false),
		})

		price = price.Add(cost.price)
		time = time.Add(cost.time)
		co2 = co2.Add(cost.co2)
		for j := range overall {
			overall[j].add(cost.consumables[j])
		}
	}

	permutation.Price = price.InexactFloat64()
	permutation.Time = time.InexactFloat64()
	permutation.CO2 = co2.InexactFloat64()
	permutation.Consumables = a.report(overall, true)

	return permutation, nil
}

func (a *CostAggregator) cost(step *entities.PartProcessStep, rsID entities.ResourceSkillID) (*stepCost, error) {
	key := costKey{step: step, rs: rsID}

	a.mutex.Lock()
	cached, exists := a.table[key]
	a.mutex.Unlock()
	if exists {
		return cached, nil
	}

	rs, ok := a.catalog.ResourceSkill(rsID)
	if !ok {
		return nil, fmt.Errorf("unknown resource skill %s", rsID)
	}

	quantity := decimal.NewFromFloat(step.RequiredQuantity)
	cost := &stepCost{
		price:       linear(rs.FixedPrice, rs.VariablePrice, quantity),
		time:        linear(rs.FixedTime, rs.VariableTime, quantity),
		co2:         linear(rs.FixedCO2, rs.VariableCO2, quantity),
		consumables: a.zeroAmounts(),
	}

	// duplicate skill consumables of the same consumable are summed
	for _, sc := range rs.Consumables {
		j, ok := a.consumableIndex[sc.ConsumableID]
		if !ok {
			return nil, fmt.Errorf("resource skill %s: unknown consumable %s", rs.ID, sc.ConsumableID)
		}
		variable := decimal.NewFromFloat(sc.VariableQuantity).Mul(quantity)
		fixed := decimal.NewFromFloat(sc.FixedQuantity)
		unitPrice := decimal.NewFromFloat(sc.Price)
		unitCO2 := decimal.NewFromFloat(sc.CO2)

		cost.consumables[j].add(consumableAmount{
			quantity: variable.Add(fixed),
			price:    variable.Mul(unitPrice).Add(fixed.Mul(unitPrice)),
			co2:      variable.Mul(unitCO2).Add(fixed.Mul(unitCO2)),
		})
	}

	// consumable time is not modelled
	for _, amount := range cost.consumables {
		cost.price = cost.price.Add(amount.price)
		cost.co2 = cost.co2.Add(amount.co2)
	}

	a.mutex.Lock()
	a.table[key] = cost
	a.mutex.Unlock()

	return cost, nil
}

// TableSize returns the number of memoized step costs
func (a *CostAggregator) TableSize() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return len(a.table)
}

func (a *CostAggregator) zeroAmounts() []consumableAmount {
	amounts := make([]consumableAmount, len(a.consumableIndex))
	for i := range amounts {
		amounts[i] = consumableAmount{quantity: decimal.Zero, price: decimal.Zero, co2: decimal.Zero}
	}
	return amounts
}

func (a *CostAggregator) report(amounts []consumableAmount, overall bool) []entities.ConsumableCost {
	consumables := a.catalog.Consumables()
	costs := make([]entities.ConsumableCost, len(consumables))
	for i, c := range consumables {
		costs[i] = entities.ConsumableCost{
			ConsumableID: c.ID,
			IsOverall:    overall,
			Quantity:     amounts[i].quantity.InexactFloat64(),
			Price:        amounts[i].price.InexactFloat64(),
			CO2:          amounts[i].co2.InexactFloat64(),
		}
	}
	return costs
}

func linear(fixed, variable float64, quantity decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(fixed).Add(decimal.NewFromFloat(variable).Mul(quantity))
}
