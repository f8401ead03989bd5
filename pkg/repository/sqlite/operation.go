package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/shopspring/decimal"
)

// operationRecord is the JSON document stored in the operations table
type operationRecord struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Code          string           `json:"code"`
	Issuer        string           `json:"issuer"`
	Volume        decimal.Decimal  `json:"volume"`
	Rate          float64          `json:"rate"`
	Indexer       string           `json:"indexer"`
	TermMonths    int              `json:"term_months"`
	Amortization  string           `json:"amortization"`
	IssueDate     time.Time        `json:"issue_date"`
	MaturityDate  time.Time        `json:"maturity_date"`
	Inputs        model.RiskInputs `json:"inputs"`
	Justification string           `json:"justification"`
	Analysis      *model.Analysis  `json:"analysis,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func toRecord(op *model.Operation) *operationRecord {
	return &operationRecord{
		ID:            string(op.ID),
		Name:          op.Name,
		Code:          op.Code,
		Issuer:        op.Issuer,
		Volume:        op.Volume,
		Rate:          op.Rate,
		Indexer:       string(op.Indexer),
		TermMonths:    op.TermMonths,
		Amortization:  string(op.Amortization),
		IssueDate:     op.IssueDate,
		MaturityDate:  op.MaturityDate,
		Inputs:        op.Inputs,
		Justification: op.Justification,
		Analysis:      op.Analysis,
		CreatedAt:     op.CreatedAt,
		UpdatedAt:     op.UpdatedAt,
	}
}

func fromRecord(rec *operationRecord) *model.Operation {
	return &model.Operation{
		ID:            model.OperationID(rec.ID),
		Name:          rec.Name,
		Code:          rec.Code,
		Issuer:        rec.Issuer,
		Volume:        rec.Volume,
		Rate:          rec.Rate,
		Indexer:       types.Indexer(rec.Indexer),
		TermMonths:    rec.TermMonths,
		Amortization:  types.Amortization(rec.Amortization),
		IssueDate:     rec.IssueDate,
		MaturityDate:  rec.MaturityDate,
		Inputs:        rec.Inputs,
		Justification: rec.Justification,
		Analysis:      rec.Analysis,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

type operationRepository struct {
	db *sql.DB
}

func (r *operationRepository) Put(ctx context.Context, op *model.Operation) (*model.Operation, error) {
	if op.ID == "" {
		return nil, goerr.New("operation ID is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction", goerr.V("id", op.ID))
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	stored := op.Copy()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	var createdAtNano int64
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM operations WHERE id = ?`, string(op.ID)).Scan(&createdAtNano)
	switch {
	case err == nil:
		stored.CreatedAt = time.Unix(0, createdAtNano).UTC()
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, goerr.Wrap(err, "failed to get operation", goerr.V("id", op.ID))
	}

	data, err := json.Marshal(toRecord(stored))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal operation", goerr.V("id", op.ID))
	}

	const upsert = `
INSERT INTO operations (id, rating_final, document, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  rating_final = excluded.rating_final,
  document = excluded.document,
  updated_at = excluded.updated_at;
`
	if _, err := tx.ExecContext(ctx, upsert,
		string(stored.ID),
		string(stored.Rating()),
		string(data),
		stored.CreatedAt.UnixNano(),
		stored.UpdatedAt.UnixNano(),
	); err != nil {
		return nil, goerr.Wrap(err, "failed to put operation", goerr.V("id", op.ID))
	}

	if err := tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit operation", goerr.V("id", op.ID))
	}

	return stored, nil
}

func (r *operationRepository) Get(ctx context.Context, id model.OperationID) (*model.Operation, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM operations WHERE id = ?`, string(id)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "operation not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get operation", goerr.V("id", id))
	}

	var rec operationRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal operation", goerr.V("id", id))
	}

	return fromRecord(&rec), nil
}

func (r *operationRepository) List(ctx context.Context, opts ...interfaces.ListOperationOption) ([]*model.Operation, error) {
	cfg := interfaces.BuildListOperationConfig(opts...)

	query := `SELECT document FROM operations ORDER BY updated_at DESC, id ASC`
	var args []any
	if rating := cfg.Rating(); rating != nil {
		query = `SELECT document FROM operations WHERE rating_final = ? ORDER BY updated_at DESC, id ASC`
		args = append(args, string(*rating))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query operations")
	}
	defer func() { _ = rows.Close() }()

	var ops []*model.Operation
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, goerr.Wrap(err, "failed to scan operation")
		}

		var rec operationRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal operation")
		}
		ops = append(ops, fromRecord(&rec))
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate operations")
	}

	return ops, nil
}

func (r *operationRepository) Delete(ctx context.Context, id model.OperationID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM operations WHERE id = ?`, string(id))
	if err != nil {
		return goerr.Wrap(err, "failed to delete operation", goerr.V("id", id))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to get affected rows", goerr.V("id", id))
	}
	if n == 0 {
		return goerr.Wrap(ErrNotFound, "operation not found", goerr.V("id", id))
	}

	return nil
}
