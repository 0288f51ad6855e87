package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/vsinha/plafosus/pkg/domain/entities"
	"github.com/vsinha/plafosus/pkg/domain/repositories"
)

// Verify interface compliance
var _ repositories.SolutionRepository = (*SolutionStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS solution_spaces (
	id                TEXT    PRIMARY KEY,
	part_id           TEXT    NOT NULL,
	evaluation_method INTEGER NOT NULL,
	ranked            INTEGER NOT NULL,
	created_at        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_solution_spaces_part ON solution_spaces (part_id, created_at);

CREATE TABLE IF NOT EXISTS permutations (
	id                        TEXT    PRIMARY KEY,
	solution_space_id         TEXT    NOT NULL REFERENCES solution_spaces (id) ON DELETE CASCADE,
	position                  INTEGER NOT NULL,
	rank                      INTEGER NOT NULL,
	comparison_value          REAL,
	manufacturing_possibility INTEGER NOT NULL,
	price                     REAL    NOT NULL,
	time                      REAL    NOT NULL,
	co2                       REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_permutations_space ON permutations (solution_space_id, position);

CREATE TABLE IF NOT EXISTS solutions (
	id                            TEXT    PRIMARY KEY,
	permutation_id                TEXT    NOT NULL REFERENCES permutations (id) ON DELETE CASCADE,
	position                      INTEGER NOT NULL,
	part_process_step_id          TEXT    NOT NULL,
	resource_skill_id             TEXT    NOT NULL,
	manufacturing_sequence_number INTEGER NOT NULL,
	quantity                      REAL    NOT NULL,
	price                         REAL    NOT NULL,
	time                          REAL    NOT NULL,
	co2                           REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_solutions_permutation ON solutions (permutation_id, position);

CREATE TABLE IF NOT EXISTS consumable_costs (
	permutation_id TEXT    NOT NULL REFERENCES permutations (id) ON DELETE CASCADE,
	solution_id    TEXT    REFERENCES solutions (id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	consumable_id  TEXT    NOT NULL,
	is_overall     INTEGER NOT NULL,
	quantity       REAL    NOT NULL,
	price          REAL    NOT NULL,
	co2            REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_consumable_costs_permutation ON consumable_costs (permutation_id, position);
`

// SolutionStore persists solution spaces in SQLite via modernc.org/sqlite.
// Each space is written in a single transaction.
type SolutionStore struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path, applies the
// pragmas for WAL mode and foreign keys and creates the schema.
func New(path string) (*SolutionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection. This also keeps
	// ":memory:" databases on one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SolutionStore{db: db}, nil
}

// Close closes the underlying database connection
func (s *SolutionStore) Close() error {
	return s.db.Close()
}

// Tx executes fn within a database transaction. The transaction is
// committed if fn returns nil, rolled back otherwise.
func (s *SolutionStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

// SaveSolutionSpace stores the space with all permutations, solutions and
// consumable costs. Spaces are write-once.
func (s *SolutionStore) SaveSolutionSpace(ctx context.Context, space *entities.SolutionSpace) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO solution_spaces (id, part_id, evaluation_method, ranked, created_at) VALUES (?, ?, ?, ?, ?)",
			string(space.ID), string(space.PartID), int(space.EvaluationMethod), space.Ranked, space.CreatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("insert solution space %s: %w", space.ID, err)
		}

		for i, p := range space.Permutations {
			if err := insertPermutation(ctx, tx, space.ID, i, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertPermutation(ctx context.Context, tx *sql.Tx, spaceID entities.SolutionSpaceID, position int, p *entities.Permutation) error {
	var comparison sql.NullFloat64
	if p.ComparisonValue != nil {
		comparison = sql.NullFloat64{Float64: *p.ComparisonValue, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO permutations
			(id, solution_space_id, position, rank, comparison_value, manufacturing_possibility, price, time, co2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(spaceID), position, p.Rank, comparison, p.ManufacturingPossibility, p.Price, p.Time, p.CO2,
	)
	if err != nil {
		return fmt.Errorf("insert permutation %s: %w", p.ID, err)
	}

	for i, sol := range p.Solutions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO solutions
				(id, permutation_id, position, part_process_step_id, resource_skill_id,
				 manufacturing_sequence_number, quantity, price, time, co2)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(sol.ID), string(p.ID), i, string(sol.PartProcessStepID), string(sol.ResourceSkillID),
			sol.ManufacturingSequenceNumber, sol.Quantity, sol.Price, sol.Time, sol.CO2,
		)
		if err != nil {
			return fmt.Errorf("insert solution %s: %w", sol.ID, err)
		}
		if err := insertConsumableCosts(ctx, tx, p.ID, sql.NullString{String: string(sol.ID), Valid: true}, sol.Consumables); err != nil {
			return err
		}
	}

	return insertConsumableCosts(ctx, tx, p.ID, sql.NullString{}, p.Consumables)
}

func insertConsumableCosts(ctx context.Context, tx *sql.Tx, permutationID entities.PermutationID, solutionID sql.NullString, costs []entities.ConsumableCost) error {
	for i, cc := range costs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO consumable_costs
				(permutation_id, solution_id, position, consumable_id, is_overall, quantity, price, co2)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			string(permutationID), solutionID, i, string(cc.ConsumableID), cc.IsOverall, cc.Quantity, cc.Price, cc.CO2,
		)
		if err != nil {
			return fmt.Errorf("insert consumable cost %s: %w", cc.ConsumableID, err)
		}
	}
	return nil
}

// GetSolutionSpace loads a space with its full output graph
func (s *SolutionStore) GetSolutionSpace(ctx context.Context, id entities.SolutionSpaceID) (*entities.SolutionSpace, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, part_id, evaluation_method, ranked, created_at FROM solution_spaces WHERE id = ?",
		string(id),
	)
	space, err := scanSpace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("solution space %s: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get solution space %s: %w", id, err)
	}

	if err := s.loadPermutations(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

// ListSolutionSpaces returns all spaces of a part, newest first
func (s *SolutionStore) ListSolutionSpaces(ctx context.Context, partID entities.PartID) ([]*entities.SolutionSpace, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, part_id, evaluation_method, ranked, created_at FROM solution_spaces WHERE part_id = ? ORDER BY created_at DESC, rowid DESC",
		string(partID),
	)
	if err != nil {
		return nil, fmt.Errorf("list solution spaces of part %s: %w", partID, err)
	}

	var spaces []*entities.SolutionSpace
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan solution space: %w", err)
		}
		spaces = append(spaces, space)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Permutations are loaded after the cursor is closed: the store uses a single connection.
	for _, space := range spaces {
		if err := s.loadPermutations(ctx, space); err != nil {
			return nil, err
		}
	}
	return spaces, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSpace(row scanner) (*entities.SolutionSpace, error) {
	var (
		space     entities.SolutionSpace
		id        string
		partID    string
		method    int
		createdAt int64
	)
	if err := row.Scan(&id, &partID, &method, &space.Ranked, &createdAt); err != nil {
		return nil, err
	}
	space.ID = entities.SolutionSpaceID(id)
	space.PartID = entities.PartID(partID)
	space.EvaluationMethod = entities.EvaluationMethod(method)
	space.CreatedAt = time.Unix(0, createdAt).UTC()
	return &space, nil
}

func (s *SolutionStore) loadPermutations(ctx context.Context, space *entities.SolutionSpace) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rank, comparison_value, manufacturing_possibility, price, time, co2
		FROM permutations WHERE solution_space_id = ? ORDER BY position`,
		string(space.ID),
	)
	if err != nil {
		return fmt.Errorf("load permutations of space %s: %w", space.ID, err)
	}

	for rows.Next() {
		var (
			p          entities.Permutation
			id         string
			comparison sql.NullFloat64
		)
		if err := rows.Scan(&id, &p.Rank, &comparison, &p.ManufacturingPossibility, &p.Price, &p.Time, &p.CO2); err != nil {
			rows.Close()
			return fmt.Errorf("scan permutation: %w", err)
		}
		p.ID = entities.PermutationID(id)
		p.SolutionSpaceID = space.ID
		if comparison.Valid {
			value := comparison.Float64
			p.ComparisonValue = &value
		}
		space.Permutations = append(space.Permutations, &p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, p := range space.Permutations {
		if err := s.loadSolutions(ctx, p); err != nil {
			return err
		}
		if err := s.loadConsumableCosts(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *SolutionStore) loadSolutions(ctx context.Context, p *entities.Permutation) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, part_process_step_id, resource_skill_id, manufacturing_sequence_number, quantity, price, time, co2
		FROM solutions WHERE permutation_id = ? ORDER BY position`,
		string(p.ID),
	)
	if err != nil {
		return fmt.Errorf("load solutions of permutation %s: %w", p.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sol                    entities.Solution
			id, stepID, resSkillID string
		)
		if err := rows.Scan(&id, &stepID, &resSkillID, &sol.ManufacturingSequenceNumber,
			&sol.Quantity, &sol.Price, &sol.Time, &sol.CO2); err != nil {
			return fmt.Errorf("scan solution: %w", err)
		}
		sol.ID = entities.SolutionID(id)
		sol.PermutationID = p.ID
		sol.PartProcessStepID = entities.PartProcessStepID(stepID)
		sol.ResourceSkillID = entities.ResourceSkillID(resSkillID)
		p.Solutions = append(p.Solutions, sol)
	}
	return rows.Err()
}

func (s *SolutionStore) loadConsumableCosts(ctx context.Context, p *entities.Permutation) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT solution_id, consumable_id, is_overall, quantity, price, co2
		FROM consumable_costs WHERE permutation_id = ? ORDER BY solution_id IS NOT NULL, solution_id, position`,
		string(p.ID),
	)
	if err != nil {
		return fmt.Errorf("load consumable costs of permutation %s: %w", p.ID, err)
	}
	defer rows.Close()

	solutions := make(map[entities.SolutionID]*entities.Solution, len(p.Solutions))
	for i := range p.Solutions {
		solutions[p.Solutions[i].ID] = &p.Solutions[i]
	}

	for rows.Next() {
		var (
			cc           entities.ConsumableCost
			solutionID   sql.NullString
			consumableID string
		)
		if err := rows.Scan(&solutionID, &consumableID, &cc.IsOverall, &cc.Quantity, &cc.Price, &cc.CO2); err != nil {
			return fmt.Errorf("scan consumable cost: %w", err)
		}
		cc.ConsumableID = entities.ConsumableID(consumableID)

		if !solutionID.Valid {
			p.Consumables = append(p.Consumables, cc)
			continue
		}
		sol, ok := solutions[entities.SolutionID(solutionID.String)]
		if !ok {
			return fmt.Errorf("consumable cost references unknown solution %s", solutionID.String)
		}
		sol.Consumables = append(sol.Consumables, cc)
	}
	return rows.Err()
}
