package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Postgres driver

	"github.com/insurelab/claimlens/internal/model"
)

// PostgresStore persists claims and documents in Postgres. The full record is
// stored as JSON alongside the columns queries filter and aggregate on.
type PostgresStore struct {
	db *sqlx.DB
}

const claimsSchema = `
CREATE TABLE IF NOT EXISTS claims (
	claim_id     TEXT PRIMARY KEY,
	decision     TEXT NOT NULL,
	claim_type   TEXT NOT NULL,
	amount       DOUBLE PRECISION NOT NULL,
	fraud_score  DOUBLE PRECISION NOT NULL,
	record       JSONB NOT NULL,
	status       TEXT NOT NULL DEFAULT '',
	status_notes TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS claims_decision_idx ON claims (decision);

CREATE TABLE IF NOT EXISTS documents (
	document_id    TEXT PRIMARY KEY,
	filename       TEXT NOT NULL,
	policy_type    TEXT NOT NULL DEFAULT '',
	text_length    INTEGER NOT NULL,
	chunks_created INTEGER NOT NULL,
	status         TEXT NOT NULL,
	uploaded_at    TIMESTAMPTZ NOT NULL
);`

// NewPostgresStore connects to Postgres and ensures the schema exists
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, claimsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool
func (p *PostgresStore) Close() error { return p.db.Close() }

func (p *PostgresStore) SaveClaim(ctx context.Context, record model.ClaimDecisionRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding claim %s: %w", record.ClaimID, err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO claims (claim_id, decision, claim_type, amount, fraud_score, record, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (claim_id) DO UPDATE SET
			decision = EXCLUDED.decision, record = EXCLUDED.record`,
		record.ClaimID, record.Decision, record.Input.ClaimType, record.Input.Amount,
		record.FraudScore, payload, record.ProcessingDetails.ProcessedAt)
	if err != nil {
		return fmt.Errorf("saving claim %s: %w", record.ClaimID, err)
	}
	return nil
}

func (p *PostgresStore) GetClaim(ctx context.Context, claimID string) (*model.ClaimDecisionRecord, error) {
	var payload []byte
	err := p.db.GetContext(ctx, &payload, `SELECT record FROM claims WHERE claim_id = $1`, claimID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading claim %s: %w", claimID, err)
	}

	var record model.ClaimDecisionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decoding claim %s: %w", claimID, err)
	}
	return &record, nil
}

func (p *PostgresStore) ListClaims(ctx context.Context, filter ClaimFilter) ([]model.ClaimDecisionRecord, error) {
	query := `SELECT record FROM claims`
	args := []any{}
	if filter.Decision != "" {
		query += ` WHERE decision = $1`
		args = append(args, filter.Decision)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
	}

	var payloads [][]byte
	if err := p.db.SelectContext(ctx, &payloads, query, args...); err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}

	records := make([]model.ClaimDecisionRecord, 0, len(payloads))
	for _, payload := range payloads {
		var record model.ClaimDecisionRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decoding claim record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (p *PostgresStore) UpdateClaimStatus(ctx context.Context, claimID, status, notes string) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE claims SET status = $2, status_notes = $3 WHERE claim_id = $1`,
		claimID, status, notes)
	if err != nil {
		return fmt.Errorf("updating claim %s status: %w", claimID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) ClaimAmountsByDecision(ctx context.Context) (map[model.Decision][]float64, error) {
	return p.valuesByDecision(ctx, `SELECT decision, amount FROM claims ORDER BY created_at`)
}

func (p *PostgresStore) ClaimFraudScoresByDecision(ctx context.Context) (map[model.Decision][]float64, error) {
	return p.valuesByDecision(ctx, `SELECT decision, fraud_score FROM claims ORDER BY created_at`)
}

func (p *PostgresStore) valuesByDecision(ctx context.Context, query string) (map[model.Decision][]float64, error) {
	rows, err := p.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregating claims: %w", err)
	}
	defer rows.Close()

	out := make(map[model.Decision][]float64)
	for rows.Next() {
		var decision model.Decision
		var value float64
		if err := rows.Scan(&decision, &value); err != nil {
			return nil, fmt.Errorf("scanning claim row: %w", err)
		}
		out[decision] = append(out[decision], value)
	}
	return out, rows.Err()
}

func (p *PostgresStore) SaveDocument(ctx context.Context, doc model.Document) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO documents (document_id, filename, policy_type, text_length, chunks_created, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (document_id) DO UPDATE SET status = EXCLUDED.status`,
		doc.DocumentID, doc.Filename, doc.PolicyType, doc.TextLength, doc.ChunksCreated, doc.Status, doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", doc.DocumentID, err)
	}
	return nil
}

func (p *PostgresStore) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	var doc documentRow
	err := p.db.GetContext(ctx, &doc,
		`SELECT document_id, filename, policy_type, text_length, chunks_created, status, uploaded_at
		 FROM documents WHERE document_id = $1`, documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", documentID, err)
	}
	converted := doc.toModel()
	return &converted, nil
}

func (p *PostgresStore) ListDocuments(ctx context.Context, limit, offset int) ([]model.Document, error) {
	query := `SELECT document_id, filename, policy_type, text_length, chunks_created, status, uploaded_at
		FROM documents ORDER BY uploaded_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(` OFFSET %d`, offset)
	}

	var rows []documentRow
	if err := p.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	docs := make([]model.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toModel())
	}
	return docs, nil
}

func (p *PostgresStore) DeleteDocument(ctx context.Context, documentID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM documents WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", documentID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// documentRow maps the documents table for sqlx scanning
type documentRow struct {
	DocumentID    string    `db:"document_id"`
	Filename      string    `db:"filename"`
	PolicyType    string    `db:"policy_type"`
	TextLength    int       `db:"text_length"`
	ChunksCreated int       `db:"chunks_created"`
	Status        string    `db:"status"`
	UploadedAt    time.Time `db:"uploaded_at"`
}

func (r documentRow) toModel() model.Document {
	return model.Document{
		DocumentID:    r.DocumentID,
		Filename:      r.Filename,
		PolicyType:    r.PolicyType,
		TextLength:    r.TextLength,
		ChunksCreated: r.ChunksCreated,
		Status:        r.Status,
		UploadedAt:    r.UploadedAt,
	}
}
