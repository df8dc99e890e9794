package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"ipwatch/internal/domain"
)

const fileColumns = `id, case_id, file_name, original_file_name, mime_type, file_size, file_url, title, description,
	tags, uploaded_by, uploaded_at, upload_context, hash, hash_algorithm, last_verified, verification_status`

func scanFile(row pgx.Row) (domain.EvidenceFile, error) {
	var f domain.EvidenceFile
	var status string
	err := row.Scan(&f.ID, &f.CaseID, &f.FileName, &f.OriginalFileName, &f.MimeType, &f.FileSize, &f.FileURL,
		&f.Title, &f.Description, &f.Tags, &f.UploadedBy, &f.UploadedAt, &f.UploadContext,
		&f.Integrity.Hash, &f.Integrity.Algorithm, &f.Integrity.LastVerified, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return f, domain.ErrNotFound
	}
	f.Integrity.VerificationStatus = domain.VerificationStatus(status)
	return f, err
}

func (db *DB) CreateFile(ctx context.Context, in domain.EvidenceFile, opening func(f domain.EvidenceFile) domain.CustodyEntry) (f domain.EvidenceFile, entry domain.CustodyEntry, err error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return f, entry, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	f, err = scanFile(tx.QueryRow(ctx, `
		INSERT INTO evidence_files (case_id, file_name, original_file_name, mime_type, file_size, file_url,
			title, description, tags, uploaded_by, uploaded_at, upload_context, hash, hash_algorithm, verification_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 'unverified')
		RETURNING `+fileColumns,
		in.CaseID, in.FileName, in.OriginalFileName, in.MimeType, in.FileSize, in.FileURL,
		in.Title, in.Description, tags, in.UploadedBy, in.UploadedAt, in.UploadContext, in.Integrity.Hash, in.Integrity.Algorithm))
	if err != nil {
		return f, entry, err
	}

	entry = opening(f)
	entry.EvidenceID = f.ID
	err = insertCustody(ctx, tx, entry)
	return f, entry, err
}

func (db *DB) GetFile(ctx context.Context, id string) (domain.EvidenceFile, error) {
	return scanFile(db.Pool.QueryRow(ctx, `SELECT `+fileColumns+` FROM evidence_files WHERE id = $1`, id))
}

func (db *DB) UpdateVerification(ctx context.Context, id string, status domain.VerificationStatus, at time.Time) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE evidence_files SET verification_status = $2, last_verified = $3 WHERE id = $1
	`, id, string(status), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AppendCustody locks the evidence row so appends for one file are
// serialized, then hands the current tail to build.
func (db *DB) AppendCustody(ctx context.Context, evidenceID string, build func(prev *domain.CustodyEntry) domain.CustodyEntry) (entry domain.CustodyEntry, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return entry, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var locked string
	err = tx.QueryRow(ctx, `SELECT id FROM evidence_files WHERE id = $1 FOR UPDATE`, evidenceID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return entry, domain.ErrNotFound
	}
	if err != nil {
		return entry, err
	}

	var prev *domain.CustodyEntry
	tail, err := scanCustody(tx.QueryRow(ctx, `
		SELECT `+custodyColumns+` FROM custody_events
		WHERE evidence_id = $1 ORDER BY seq DESC LIMIT 1
	`, evidenceID))
	switch {
	case err == nil:
		prev = &tail
	case errors.Is(err, pgx.ErrNoRows):
		err = nil
	default:
		return entry, err
	}

	entry = build(prev)
	entry.EvidenceID = evidenceID
	err = insertCustody(ctx, tx, entry)
	return entry, err
}

func insertCustody(ctx context.Context, tx pgx.Tx, e domain.CustodyEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO custody_events (evidence_id, seq, action, actor, at, details, prev_hash, chain_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.EvidenceID, e.Seq, string(e.Action), e.Actor, e.Timestamp, e.Details, e.PrevHash, e.ChainHash)
	return err
}

const custodyColumns = `evidence_id, seq, action, actor, at, details, prev_hash, chain_hash`

func scanCustody(row pgx.Row) (domain.CustodyEntry, error) {
	var e domain.CustodyEntry
	var action string
	err := row.Scan(&e.EvidenceID, &e.Seq, &action, &e.Actor, &e.Timestamp, &e.Details, &e.PrevHash, &e.ChainHash)
	e.Action = domain.CustodyAction(action)
	return e, err
}

func (db *DB) ListCustody(ctx context.Context, evidenceID string) ([]domain.CustodyEntry, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+custodyColumns+` FROM custody_events WHERE evidence_id = $1 ORDER BY seq`, evidenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.CustodyEntry{}
	for rows.Next() {
		e, err := scanCustody(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
