package memo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// sqlStore keeps entries in a relational table with a composite
// (scope, k) primary key, so a scope purge is a single DELETE.
type sqlStore struct {
	db         *sql.DB
	table      string
	driverName string
	prefix     string
	getStmt    *sql.Stmt
	upsertStmt *sql.Stmt
	deleteStmt *sql.Stmt
	purgeStmt  *sql.Stmt
	flushStmt  *sql.Stmt
}

var sqlIdentRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func newSQLStore(cfg StoreConfig) (Store, error) {
	if cfg.SQLDriverName == "" || cfg.SQLDSN == "" {
		return nil, errors.New("sql driver requires driver name and dsn")
	}
	db, err := sql.Open(cfg.SQLDriverName, cfg.SQLDSN)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	table := cfg.SQLTable
	if !sqlIdentRE.MatchString(table) {
		return nil, fmt.Errorf("invalid sql table name %q", table)
	}
	s := &sqlStore{
		db:         db,
		table:      table,
		driverName: cfg.SQLDriverName,
		prefix:     cfg.Prefix,
	}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	if err := s.prepareStatements(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sqlStore) Driver() Driver { return DriverSQL }

func (s *sqlStore) ensureSchema() error {
	var stmt string
	switch s.driverName {
	case "postgres", "pgx":
		stmt = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			scope TEXT NOT NULL,
			k TEXT NOT NULL,
			v BYTEA NOT NULL,
			PRIMARY KEY (scope, k)
		);`, s.table)
	case "mysql":
		stmt = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			scope VARBINARY(255) NOT NULL,
			k VARBINARY(255) NOT NULL,
			v LONGBLOB NOT NULL,
			PRIMARY KEY (scope, k)
		) ENGINE=InnoDB;`, s.table)
	default: // sqlite
		stmt = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			scope TEXT NOT NULL,
			k TEXT NOT NULL,
			v BLOB NOT NULL,
			PRIMARY KEY (scope, k)
		);`, s.table)
	}
	_, err := s.db.Exec(stmt)
	return err
}

func (s *sqlStore) prepareStatements() error {
	var upsert string
	switch s.driverName {
	case "mysql":
		upsert = fmt.Sprintf(`INSERT INTO %s (scope, k, v) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE v = VALUES(v)`, s.table)
	default: // sqlite, postgres
		upsert = fmt.Sprintf(`INSERT INTO %s (scope, k, v) VALUES (?, ?, ?)
			ON CONFLICT (scope, k) DO UPDATE SET v = excluded.v`, s.table)
	}

	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.getStmt, fmt.Sprintf(`SELECT v FROM %s WHERE scope = ? AND k = ?`, s.table)},
		{&s.upsertStmt, upsert},
		{&s.deleteStmt, fmt.Sprintf(`DELETE FROM %s WHERE scope = ? AND k = ?`, s.table)},
		{&s.purgeStmt, fmt.Sprintf(`DELETE FROM %s WHERE scope = ?`, s.table)},
		{&s.flushStmt, fmt.Sprintf(`DELETE FROM %s WHERE scope LIKE ?`, s.table)},
	}
	for _, entry := range stmts {
		prepared, err := s.db.Prepare(s.rebind(entry.query))
		if err != nil {
			return err
		}
		*entry.dst = prepared
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres-flavored drivers.
func (s *sqlStore) rebind(query string) string {
	switch s.driverName {
	case "postgres", "pgx":
		var b strings.Builder
		n := 0
		for _, r := range query {
			if r == '?' {
				n++
				fmt.Fprintf(&b, "$%d", n)
				continue
			}
			b.WriteRune(r)
		}
		return b.String()
	default:
		return query
	}
}

func (s *sqlStore) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	var v []byte
	err := s.getStmt.QueryRowContext(ctx, s.scopeKey(scope), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cloneBytes(v), true, nil
}

func (s *sqlStore) Set(ctx context.Context, scope, key string, value []byte) error {
	_, err := s.upsertStmt.ExecContext(ctx, s.scopeKey(scope), key, cloneBytes(value))
	return err
}

func (s *sqlStore) Delete(ctx context.Context, scope, key string) error {
	_, err := s.deleteStmt.ExecContext(ctx, s.scopeKey(scope), key)
	return err
}

func (s *sqlStore) Purge(ctx context.Context, scope string) error {
	_, err := s.purgeStmt.ExecContext(ctx, s.scopeKey(scope))
	return err
}

func (s *sqlStore) Flush(ctx context.Context) error {
	_, err := s.flushStmt.ExecContext(ctx, s.prefix+":%")
	return err
}

func (s *sqlStore) scopeKey(scope string) string {
	if s.prefix == "" {
		return scope
	}
	return s.prefix + ":" + scope
}
