package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ipwatch/internal/domain"
)

// AssetRepository
func (db *DB) GetAsset(ctx context.Context, id string) (domain.Asset, error) {
	var a domain.Asset
	err := db.Pool.QueryRow(ctx, `
		SELECT id, type, title, description, registration_number, jurisdiction
		FROM protected_assets WHERE id = $1
	`, id).Scan(&a.ID, &a.Type, &a.Title, &a.Description, &a.RegistrationNumber, &a.Jurisdiction)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, domain.ErrNotFound
	}
	return a, err
}

// CreateAsset is used by seeding and tests; asset management lives elsewhere.
func (db *DB) CreateAsset(ctx context.Context, a domain.Asset) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO protected_assets (type, title, description, registration_number, jurisdiction)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, a.Type, a.Title, a.Description, a.RegistrationNumber, a.Jurisdiction).Scan(&id)
	return id, err
}

// MonitoringLogRepository
const logColumns = `id, job_id, result, risk_score, screenshot_url, html_content, metadata, auto_case_id, created_at`

func scanLog(row pgx.Row) (domain.MonitoringLog, error) {
	var l domain.MonitoringLog
	err := row.Scan(&l.ID, &l.JobID, &l.Result, &l.RiskScore, &l.ScreenshotURL, &l.HTMLContent,
		&l.Metadata, &l.AutoCaseID, &l.CreatedAt)
	return l, err
}

func (db *DB) CreateLog(ctx context.Context, l domain.MonitoringLog) (domain.MonitoringLog, error) {
	return scanLog(db.Pool.QueryRow(ctx, `
		INSERT INTO monitoring_logs (job_id, result, risk_score, screenshot_url, html_content, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+logColumns,
		l.JobID, l.Result, l.RiskScore, l.ScreenshotURL, l.HTMLContent, jsonOrEmpty(l.Metadata)))
}

func (db *DB) ListLogs(ctx context.Context, jobID string) ([]domain.MonitoringLog, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+logColumns+` FROM monitoring_logs WHERE job_id = $1 ORDER BY created_at`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.MonitoringLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (db *DB) LinkCase(ctx context.Context, logID, caseID string) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE monitoring_logs SET auto_case_id = $2 WHERE id = $1`, logID, caseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CaseRepository
const caseColumns = `id, title, status, related_asset_id, suspected_url, description, created_by, auto_generated, source_monitoring_job_id, created_at`

func scanCase(row pgx.Row) (domain.Case, error) {
	var c domain.Case
	var status string
	err := row.Scan(&c.ID, &c.Title, &status, &c.RelatedAssetID, &c.SuspectedURL, &c.Description,
		&c.CreatedBy, &c.AutoGenerated, &c.SourceMonitoringJobID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, domain.ErrNotFound
	}
	c.Status = domain.CaseStatus(status)
	return c, err
}

func (db *DB) FindAutoCase(ctx context.Context, jobID string) (domain.Case, bool, error) {
	c, err := scanCase(db.Pool.QueryRow(ctx, `
		SELECT `+caseColumns+` FROM cases
		WHERE source_monitoring_job_id = $1 AND auto_generated
	`, jobID))
	if errors.Is(err, domain.ErrNotFound) {
		return c, false, nil
	}
	return c, err == nil, err
}

func (db *DB) CreateAutoCase(ctx context.Context, c domain.Case) (domain.Case, bool, error) {
	out, err := scanCase(db.Pool.QueryRow(ctx, `
		INSERT INTO cases (title, status, related_asset_id, suspected_url, description, created_by, auto_generated, source_monitoring_job_id)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7)
		ON CONFLICT (source_monitoring_job_id) WHERE auto_generated DO NOTHING
		RETURNING `+caseColumns,
		c.Title, string(c.Status), c.RelatedAssetID, c.SuspectedURL, c.Description, c.CreatedBy, c.SourceMonitoringJobID))
	if err == nil {
		return out, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return out, false, err
	}
	// lost the race: the winner's row is already committed
	if c.SourceMonitoringJobID == nil {
		return out, false, fmt.Errorf("auto case without source job")
	}
	existing, found, err := db.FindAutoCase(ctx, *c.SourceMonitoringJobID)
	if err != nil {
		return existing, false, err
	}
	if !found {
		return existing, false, fmt.Errorf("auto case for job %s vanished", *c.SourceMonitoringJobID)
	}
	return existing, false, nil
}

func (db *DB) GetCase(ctx context.Context, id string) (domain.Case, error) {
	return scanCase(db.Pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, id))
}

// EvidenceRepository

// InsertEvidence writes all records in one transaction; any failure rolls
// back the whole batch.
func (db *DB) InsertEvidence(ctx context.Context, records []domain.EvidenceRecord) (err error) {
	if len(records) == 0 {
		return nil
	}
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO monitoring_evidence (type, url, payload, auto_generated, case_id, monitoring_log_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, string(r.Type), r.URL, jsonOrEmpty(r.Payload), r.AutoGenerated, r.CaseID, r.MonitoringLogID)
	}
	br := tx.SendBatch(ctx, batch)
	for range records {
		if _, err = br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}

func (db *DB) ListEvidence(ctx context.Context, caseID string) ([]domain.EvidenceRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, type, url, payload, auto_generated, case_id, monitoring_log_id, created_at
		FROM monitoring_evidence WHERE case_id = $1 ORDER BY created_at, id
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.EvidenceRecord{}
	for rows.Next() {
		var r domain.EvidenceRecord
		var typ string
		if err := rows.Scan(&r.ID, &typ, &r.URL, &r.Payload, &r.AutoGenerated, &r.CaseID, &r.MonitoringLogID, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Type = domain.EvidenceType(typ)
		out = append(out, r)
	}
	return out, rows.Err()
}

func jsonOrEmpty(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte(`{}`)
	}
	return raw
}
