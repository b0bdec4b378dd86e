package persist

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ratedesk/decisiontree/pkg/serialize"
	"github.com/ratedesk/decisiontree/pkg/types"
)

// SQLiteStore implements Store over a SQLite database, mirroring
// pkg/store/sqlite.go's NewSQLite/PRAGMA/CreateSchema startup sequence.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if absent) a SQLite-backed store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveRuleset(rs *types.Ruleset) error {
	data, err := serialize.Marshal(rs)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO rulesets (name, yaml, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET yaml = excluded.yaml, updated_at = excluded.updated_at`,
		rs.Name, data, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) LoadRuleset(name string, cache types.DriverCache) (*types.Ruleset, error) {
	var data []byte
	err := s.db.QueryRow("SELECT yaml FROM rulesets WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no ruleset named %q", types.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return serialize.Unmarshal(data, cache)
}

func (s *SQLiteStore) RulesetExists(name string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM rulesets WHERE name = ?", name).Scan(&count)
	return count > 0, err
}

func (s *SQLiteStore) SaveChange(c *types.Change) error {
	var approvedBy, approvedAt, appliedAt sql.NullString
	if c.Audit.ApprovedBy != "" {
		approvedBy = sql.NullString{String: c.Audit.ApprovedBy, Valid: true}
		approvedAt = sql.NullString{String: c.Audit.ApprovedAt.Format(time.RFC3339), Valid: true}
	}
	if !c.Audit.AppliedAt.IsZero() {
		appliedAt = sql.NullString{String: c.Audit.AppliedAt.Format(time.RFC3339), Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO changes (id, ruleset_name, state, created_by, created_at, approved_by, approved_at, applied_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.RulesetName, int(c.State), c.Audit.CreatedBy, c.Audit.CreatedAt.Format(time.RFC3339),
		approvedBy, approvedAt, appliedAt)
	return err
}

func (s *SQLiteStore) ChangeHistory(rulesetName string) ([]*types.Change, error) {
	rows, err := s.db.Query(
		`SELECT id, ruleset_name, state, created_by, created_at, approved_by, approved_at, applied_at
		 FROM changes WHERE ruleset_name = ? ORDER BY seq ASC`, rulesetName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*types.Change
	for rows.Next() {
		var c types.Change
		var state int
		var createdAt string
		var approvedBy, approvedAt, appliedAt sql.NullString
		if err := rows.Scan(&c.ID, &c.RulesetName, &state, &c.Audit.CreatedBy, &createdAt,
			&approvedBy, &approvedAt, &appliedAt); err != nil {
			return nil, err
		}
		c.State = types.ChangeState(state)
		c.Audit.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if approvedBy.Valid {
			c.Audit.ApprovedBy = approvedBy.String
			c.Audit.ApprovedAt, _ = time.Parse(time.RFC3339, approvedAt.String)
		}
		if appliedAt.Valid {
			c.Audit.AppliedAt, _ = time.Parse(time.RFC3339, appliedAt.String)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
