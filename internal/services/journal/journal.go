package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/commonsdao/govclient/pkg/dao"
	_ "github.com/lib/pq"
)

// Journal is an optional Postgres audit log of the transactions this process
// submitted. It records only local submissions, never remote state, and the
// client never reads from it.
type Journal struct {
	chainID *big.Int
	db      *sql.DB
}

func New(chainID *big.Int, username, password, name, host string) (*Journal, error) {
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=5432 sslmode=disable", username, password, name, host)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	j := &Journal{
		chainID: chainID,
		db:      db,
	}

	exists, err := j.tableExists()
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := j.createTable(); err != nil {
			return nil, err
		}
	}

	return j, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) tableName() string {
	return fmt.Sprintf("t_tx_journal_%s", j.chainID.String())
}

func (j *Journal) tableExists() (bool, error) {
	var exists bool
	err := j.db.QueryRow(fmt.Sprintf(`
    SELECT EXISTS (
        SELECT 1
        FROM information_schema.tables
        WHERE table_schema = 'public'
        AND table_name = '%s'
    );
    `, j.tableName())).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (j *Journal) createTable() error {
	_, err := j.db.Exec(fmt.Sprintf(`
	CREATE TABLE %s(
		operation varchar(16) NOT NULL,
		tx_hash varchar(66) NOT NULL,
		success boolean NOT NULL,
		result text NOT NULL,
		created_at timestamp NOT NULL
	);
	`, j.tableName()))

	return err
}

// AddEntry records a confirmed transaction. Journal failures must not fail
// an already-confirmed transaction, so callers only log the returned error.
func (j *Journal) AddEntry(operation string, result *dao.TransactionResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = j.db.Exec(fmt.Sprintf(`
	INSERT INTO %s (operation, tx_hash, success, result, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`, j.tableName()), operation, result.TxHash, result.Success, string(b), time.Now().UTC())

	return err
}
