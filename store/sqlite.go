package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"rstyle/common"
	"rstyle/rules"
)

//go:embed schema.sql
var schemaSQL string

const columns = `id, selector, scope, page_id, element_id, element_class, rules, priority, active, created_at, updated_at`

var _ Store = (*SQLite)(nil)

// SQLite stores rule sets in a SQLite database.
type SQLite struct {
	pool *sqlitex.Pool
	opts options
	log  *zap.Logger
}

// OpenSQLite opens (creating if necessary) the database at path and makes
// sure the schema exists.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger, opts ...Option) (*SQLite, error) {
	if log == nil {
		log = zap.NewNop()
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		Flags:    sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL | sqlite.OpenURI,
		PoolSize: 4,
		PrepareConn: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteTransient(conn, "PRAGMA busy_timeout = 5000;", nil)
		},
	})
	if err != nil {
		return nil, &rules.StoreError{Op: "open", Err: fmt.Errorf("unable to open database '%s': %w", path, err)}
	}

	s := &SQLite{pool: pool, opts: newOptions(opts), log: log.Named("rule-store")}

	conn, err := s.take(ctx, "open")
	if err != nil {
		pool.Close()
		return nil, err
	}
	err = sqlitex.ExecuteScript(conn, schemaSQL, nil)
	s.pool.Put(conn)
	if err != nil {
		pool.Close()
		return nil, &rules.StoreError{Op: "open", Err: fmt.Errorf("unable to create schema: %w", err)}
	}

	s.log.Debug("Rule store opened", zap.String("path", path))
	return s, nil
}

// Close closes all connections.
func (s *SQLite) Close() error {
	return s.pool.Close()
}

func (s *SQLite) take(ctx context.Context, op string) (*sqlite.Conn, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, &rules.StoreError{Op: op, Err: err}
	}
	return conn, nil
}

func (s *SQLite) Rules(ctx context.Context, pageID int64) ([]rules.RuleSet, error) {
	conn, err := s.take(ctx, "rules")
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	sets, err := query(conn,
		`SELECT `+columns+` FROM rule_sets
		WHERE active = 1 AND (scope = 'site' OR (scope = 'page' AND page_id = ?))
		ORDER BY priority, id`, pageID)
	if err != nil {
		return nil, &rules.StoreError{Op: "rules", Err: err}
	}
	return sets, nil
}

func (s *SQLite) All(ctx context.Context) ([]rules.RuleSet, error) {
	conn, err := s.take(ctx, "all")
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	sets, err := query(conn, `SELECT `+columns+` FROM rule_sets ORDER BY id`)
	if err != nil {
		return nil, &rules.StoreError{Op: "all", Err: err}
	}
	return sets, nil
}

func (s *SQLite) Get(ctx context.Context, id int64) (rules.RuleSet, error) {
	conn, err := s.take(ctx, "get")
	if err != nil {
		return rules.RuleSet{}, err
	}
	defer s.pool.Put(conn)
	return get(conn, "get", id)
}

func (s *SQLite) Save(ctx context.Context, rs rules.RuleSet, merge MergeFunc) (rules.RuleSet, bool, error) {
	conn, err := s.take(ctx, "save")
	if err != nil {
		return rules.RuleSet{}, false, err
	}
	defer s.pool.Put(conn)

	saved, created, err := s.save(conn, rs, merge)
	if err != nil {
		return rules.RuleSet{}, false, &rules.StoreError{Op: "save", Err: err}
	}
	s.log.Debug("Rule set saved", zap.Int64("id", saved.ID), zap.Stringer("key", saved.Key()), zap.Bool("created", created))
	return saved, created, nil
}

func (s *SQLite) save(conn *sqlite.Conn, rs rules.RuleSet, merge MergeFunc) (saved rules.RuleSet, created bool, err error) {
	defer sqlitex.Save(conn)(&err)

	existing, err := query(conn, `SELECT `+columns+` FROM rule_sets WHERE selector = ? AND scope = ? AND page_id = ?`,
		rs.Selector, rs.Scope.String(), rs.PageID)
	if err != nil {
		return rules.RuleSet{}, false, err
	}

	now := stamp(s.opts.now)
	if len(existing) > 0 {
		saved = existing[0]
		saved.Rules = mergeRules(merge, saved.Rules, rs.Rules)
		saved.ElementID, saved.ElementClass = rs.ElementID, rs.ElementClass
		saved.Priority = rs.Priority
		saved.Active = true
		saved.UpdatedAt = now

		data, err := json.Marshal(saved.Rules)
		if err != nil {
			return rules.RuleSet{}, false, err
		}
		err = sqlitex.Execute(conn,
			`UPDATE rule_sets SET element_id = ?, element_class = ?, rules = ?, priority = ?, active = 1, updated_at = ? WHERE id = ?`,
			&sqlitex.ExecOptions{Args: []any{saved.ElementID, saved.ElementClass, string(data), saved.Priority, now.UnixMilli(), saved.ID}})
		if err != nil {
			return rules.RuleSet{}, false, err
		}
		return saved, false, nil
	}

	saved = rs
	saved.Rules = rs.Rules.Clone()
	saved.Active = true
	saved.CreatedAt, saved.UpdatedAt = now, now

	data, err := json.Marshal(saved.Rules)
	if err != nil {
		return rules.RuleSet{}, false, err
	}
	err = sqlitex.Execute(conn,
		`INSERT INTO rule_sets (selector, scope, page_id, element_id, element_class, rules, priority, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{
			saved.Selector, saved.Scope.String(), saved.PageID, saved.ElementID, saved.ElementClass,
			string(data), saved.Priority, now.UnixMilli(), now.UnixMilli(),
		}})
	if err != nil {
		return rules.RuleSet{}, false, err
	}
	saved.ID = conn.LastInsertRowID()
	return saved, true, nil
}

func (s *SQLite) Delete(ctx context.Context, id int64) (rules.RuleSet, error) {
	conn, err := s.take(ctx, "delete")
	if err != nil {
		return rules.RuleSet{}, err
	}
	defer s.pool.Put(conn)

	rs, err := get(conn, "delete", id)
	if err != nil {
		return rules.RuleSet{}, err
	}
	if err := sqlitex.Execute(conn, `DELETE FROM rule_sets WHERE id = ?`, &sqlitex.ExecOptions{Args: []any{id}}); err != nil {
		return rules.RuleSet{}, &rules.StoreError{Op: "delete", Err: err}
	}
	s.log.Debug("Rule set deleted", zap.Int64("id", id))
	return rs, nil
}

func (s *SQLite) SetActive(ctx context.Context, id int64, active bool) (rules.RuleSet, error) {
	flag := 0
	if active {
		flag = 1
	}
	return s.update(ctx, "set active", id, `UPDATE rule_sets SET active = ?, updated_at = ? WHERE id = ?`, flag)
}

func (s *SQLite) SetPriority(ctx context.Context, id int64, priority int) (rules.RuleSet, error) {
	return s.update(ctx, "set priority", id, `UPDATE rule_sets SET priority = ?, updated_at = ? WHERE id = ?`, priority)
}

// update runs a single column update of the form "SET x = ?, updated_at = ? WHERE id = ?".
func (s *SQLite) update(ctx context.Context, op string, id int64, stmt string, value any) (rules.RuleSet, error) {
	conn, err := s.take(ctx, op)
	if err != nil {
		return rules.RuleSet{}, err
	}
	defer s.pool.Put(conn)

	now := stamp(s.opts.now)
	if err := sqlitex.Execute(conn, stmt, &sqlitex.ExecOptions{Args: []any{value, now.UnixMilli(), id}}); err != nil {
		return rules.RuleSet{}, &rules.StoreError{Op: op, Err: err}
	}
	if conn.Changes() == 0 {
		return rules.RuleSet{}, &rules.NotFoundError{ID: id}
	}
	return get(conn, op, id)
}

func (s *SQLite) CleanupOrphans(ctx context.Context, exists func(pageID int64) bool) ([]rules.RuleSet, error) {
	conn, err := s.take(ctx, "cleanup")
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	removed, err := cleanup(conn, exists)
	if err != nil {
		return nil, &rules.StoreError{Op: "cleanup", Err: err}
	}
	if len(removed) > 0 {
		s.log.Debug("Orphaned rule sets removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}

func cleanup(conn *sqlite.Conn, exists func(pageID int64) bool) (removed []rules.RuleSet, err error) {
	defer sqlitex.Save(conn)(&err)

	pages, err := query(conn, `SELECT `+columns+` FROM rule_sets WHERE scope = 'page' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for _, rs := range pages {
		if exists(rs.PageID) {
			continue
		}
		if err := sqlitex.Execute(conn, `DELETE FROM rule_sets WHERE id = ?`, &sqlitex.ExecOptions{Args: []any{rs.ID}}); err != nil {
			return nil, err
		}
		removed = append(removed, rs)
	}
	return removed, nil
}

func get(conn *sqlite.Conn, op string, id int64) (rules.RuleSet, error) {
	sets, err := query(conn, `SELECT `+columns+` FROM rule_sets WHERE id = ?`, id)
	if err != nil {
		return rules.RuleSet{}, &rules.StoreError{Op: op, Err: err}
	}
	if len(sets) == 0 {
		return rules.RuleSet{}, &rules.NotFoundError{ID: id}
	}
	return sets[0], nil
}

func query(conn *sqlite.Conn, q string, args ...any) ([]rules.RuleSet, error) {
	var out []rules.RuleSet
	err := sqlitex.Execute(conn, q, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rs, err := scan(stmt)
			if err != nil {
				return err
			}
			out = append(out, rs)
			return nil
		},
	})
	return out, err
}

// scan reads a row selected with columns.
func scan(stmt *sqlite.Stmt) (rules.RuleSet, error) {
	rs := rules.RuleSet{
		ID:           stmt.ColumnInt64(0),
		Selector:     stmt.ColumnText(1),
		PageID:       stmt.ColumnInt64(3),
		ElementID:    stmt.ColumnText(4),
		ElementClass: stmt.ColumnText(5),
		Priority:     int(stmt.ColumnInt64(7)),
		Active:       stmt.ColumnInt64(8) != 0,
		CreatedAt:    time.UnixMilli(stmt.ColumnInt64(9)).UTC(),
		UpdatedAt:    time.UnixMilli(stmt.ColumnInt64(10)).UTC(),
	}
	scope, err := common.ParseScope(stmt.ColumnText(2))
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("rule set %d: %w", rs.ID, err)
	}
	rs.Scope = scope
	if err := json.Unmarshal([]byte(stmt.ColumnText(6)), &rs.Rules); err != nil {
		return rules.RuleSet{}, fmt.Errorf("rule set %d: unable to decode rules: %w", rs.ID, err)
	}
	return rs, nil
}
