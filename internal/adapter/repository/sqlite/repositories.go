package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// ParticipantRepository implements usecase.ParticipantRepository.
type ParticipantRepository struct {
	db *sql.DB
}

// NewParticipantRepository creates a new ParticipantRepository.
func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Create inserts a participant.
func (r *ParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO participants (id, display_name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.DisplayName, toUnix(p.CreatedAt))
	return classify(err, nil)
}

// GetByID returns a participant by ID.
func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	var (
		p         domain.Participant
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, created_at FROM participants WHERE id = ?`, id,
	).Scan(&p.ID, &p.DisplayName, &createdAt)
	if err != nil {
		return nil, classify(err, domain.ErrParticipantNotFound)
	}
	p.CreatedAt = fromUnix(createdAt)
	return &p, nil
}

// GetByIDs returns the participants that exist among ids.
func (r *ParticipantRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Participant, error) {
	result := make([]*domain.Participant, 0, len(ids))
	for _, id := range ids {
		p, err := r.GetByID(ctx, id)
		if errors.Is(err, domain.ErrParticipantNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Create inserts the ledger and its membership in tx.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) error {
	stx := sqlTx(tx)

	_, err := stx.ExecContext(ctx,
		`INSERT INTO ledgers (id, name, created_by, created_at) VALUES (?, ?, ?, ?)`,
		ledger.ID, ledger.Name, ledger.CreatedBy, toUnix(ledger.CreatedAt))
	if err != nil {
		return classify(err, nil)
	}

	for i, participantID := range ledger.ParticipantIDs {
		_, err := stx.ExecContext(ctx,
			`INSERT INTO ledger_members (ledger_id, participant_id, position) VALUES (?, ?, ?)`,
			ledger.ID, participantID, i)
		if err != nil {
			return classify(err, nil)
		}
	}
	return nil
}

// GetByID returns a ledger with its members in membership order.
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*domain.Ledger, error) {
	var (
		l         domain.Ledger
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_by, created_at FROM ledgers WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.CreatedBy, &createdAt)
	if err != nil {
		return nil, classify(err, domain.ErrLedgerNotFound)
	}
	l.CreatedAt = fromUnix(createdAt)

	if l.ParticipantIDs, err = r.members(ctx, l.ID); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByParticipant returns the ledgers participantID belongs to, newest first.
func (r *LedgerRepository) ListByParticipant(ctx context.Context, participantID string, limit, offset int) ([]*domain.Ledger, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.created_by, l.created_at
		FROM ledgers l
		JOIN ledger_members m ON m.ledger_id = l.id
		WHERE m.participant_id = ?
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ? OFFSET ?`, participantID, limit, offset)
	if err != nil {
		return nil, classify(err, nil)
	}

	var ledgers []*domain.Ledger
	for rows.Next() {
		var (
			l         domain.Ledger
			createdAt int64
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedBy, &createdAt); err != nil {
			_ = rows.Close()
			return nil, classify(err, nil)
		}
		l.CreatedAt = fromUnix(createdAt)
		ledgers = append(ledgers, &l)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, classify(err, nil)
	}
	_ = rows.Close()

	for _, l := range ledgers {
		if l.ParticipantIDs, err = r.members(ctx, l.ID); err != nil {
			return nil, err
		}
	}
	return ledgers, nil
}

func (r *LedgerRepository) members(ctx context.Context, ledgerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT participant_id FROM ledger_members WHERE ledger_id = ? ORDER BY position`, ledgerID)
	if err != nil {
		return nil, classify(err, nil)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, classify(err, nil)
		}
		ids = append(ids, id)
	}
	return ids, classify(rows.Err(), nil)
}

const entryColumns = `id, ledger_id, type, creditor_id, debtor_id, amount, description, status, created_by,
	created_at, updated_at, approved_at, close_requested_by, close_requested_at, closed_at`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts a pending entry in tx.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, e *domain.Entry) error {
	_, err := sqlTx(tx).ExecContext(ctx, `
		INSERT INTO entries (id, ledger_id, type, creditor_id, debtor_id, amount, description, status,
			created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.LedgerID, string(e.Type), e.CreditorID, e.DebtorID, e.Amount.String(), e.Description,
		string(e.Status), e.CreatedBy, toUnix(e.CreatedAt), toUnix(e.UpdatedAt))
	return classify(err, nil)
}

// GetByID returns an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, classify(err, domain.ErrEntryNotFound)
	}
	return e, nil
}

// GetByIDForUpdate reads an entry inside tx. The immediate transaction
// already holds the database write lock.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	row := sqlTx(tx).QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, classify(err, domain.ErrEntryNotFound)
	}
	return e, nil
}

// UpdateState persists the lifecycle fields of e if its stored status is still expected.
func (r *EntryRepository) UpdateState(ctx context.Context, tx usecase.Transaction, e *domain.Entry, expected domain.EntryStatus) error {
	res, err := sqlTx(tx).ExecContext(ctx, `
		UPDATE entries
		SET status = ?, updated_at = ?, approved_at = ?,
			close_requested_by = ?, close_requested_at = ?, closed_at = ?
		WHERE id = ? AND status = ?`,
		string(e.Status), toUnix(e.UpdatedAt), optionalUnix(e.ApprovedAt),
		optionalString(e.CloseRequestedBy), optionalUnix(e.CloseRequestedAt), optionalUnix(e.ClosedAt),
		e.ID, string(expected))
	if err != nil {
		return classify(err, nil)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return classify(err, nil)
	}
	if affected == 0 {
		return domain.ErrEntryConflict
	}
	return nil
}

// ListByLedger returns a page of the ledger's entries, newest first.
func (r *EntryRepository) ListByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]*domain.Entry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM entries WHERE ledger_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, ledgerID, limit, offset)
}

// ListApprovedByLedger returns every approved entry of the ledger.
func (r *EntryRepository) ListApprovedByLedger(ctx context.Context, ledgerID string) ([]*domain.Entry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM entries WHERE ledger_id = ? AND status = 'approved'`, ledgerID)
}

// ListPendingForApprover returns pending entries awaiting participantID's answer.
func (r *EntryRepository) ListPendingForApprover(ctx context.Context, participantID string, limit, offset int) ([]*domain.Entry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM entries
		WHERE status = 'pending'
		  AND ((type = 'debt' AND debtor_id = ?1) OR (type = 'payment' AND creditor_id = ?1))
		ORDER BY created_at DESC, id DESC LIMIT ?2 OFFSET ?3`, participantID, limit, offset)
}

// ListCloseRequestsFor returns close requests participantID must answer.
func (r *EntryRepository) ListCloseRequestsFor(ctx context.Context, participantID string, limit, offset int) ([]*domain.Entry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM entries
		WHERE status = 'close_requested'
		  AND (creditor_id = ?1 OR debtor_id = ?1)
		  AND close_requested_by <> ?1
		ORDER BY created_at DESC, id DESC LIMIT ?2 OFFSET ?3`, participantID, limit, offset)
}

func (r *EntryRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, nil)
	}
	defer rows.Close()

	entries := []*domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, classify(err, nil)
		}
		entries = append(entries, e)
	}
	return entries, classify(rows.Err(), nil)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*domain.Entry, error) {
	var (
		e                                      domain.Entry
		typ, status, amount                    string
		createdAt, updatedAt                   int64
		approvedAt, closeRequestedAt, closedAt sql.NullInt64
		closeRequestedBy                       sql.NullString
	)
	err := s.Scan(&e.ID, &e.LedgerID, &typ, &e.CreditorID, &e.DebtorID, &amount, &e.Description, &status,
		&e.CreatedBy, &createdAt, &updatedAt, &approvedAt, &closeRequestedBy, &closeRequestedAt, &closedAt)
	if err != nil {
		return nil, err
	}

	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	e.Type = domain.EntryType(typ)
	e.Status = domain.EntryStatus(status)
	e.CreatedAt = fromUnix(createdAt)
	e.UpdatedAt = fromUnix(updatedAt)
	e.ApprovedAt = nullTime(approvedAt)
	e.CloseRequestedAt = nullTime(closeRequestedAt)
	e.ClosedAt = nullTime(closedAt)
	if closeRequestedBy.Valid {
		by := closeRequestedBy.String
		e.CloseRequestedBy = &by
	}
	return &e, nil
}

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateTx inserts an audit log inside tx.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	before, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}
	after, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	_, err = sqlTx(tx).ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, resource_type, resource_id, request_id,
			before_state, after_state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.ActorID, log.Action, log.ResourceType, log.ResourceID, log.RequestID,
		before, after, toUnix(log.CreatedAt))
	return classify(err, nil)
}

// GetByResourceID returns the trail of a resource, oldest first.
func (r *AuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, action, resource_type, resource_id, request_id, before_state, after_state, created_at
		FROM audit_logs
		WHERE resource_type = ? AND resource_id = ?
		ORDER BY created_at, id`, resourceType, resourceID)
	if err != nil {
		return nil, classify(err, nil)
	}
	defer rows.Close()

	logs := []*domain.AuditLog{}
	for rows.Next() {
		var (
			log           domain.AuditLog
			before, after sql.NullString
			createdAt     int64
		)
		err := rows.Scan(&log.ID, &log.ActorID, &log.Action, &log.ResourceType, &log.ResourceID,
			&log.RequestID, &before, &after, &createdAt)
		if err != nil {
			return nil, classify(err, nil)
		}
		log.CreatedAt = fromUnix(createdAt)
		if before.Valid {
			_ = json.Unmarshal([]byte(before.String), &log.BeforeState)
		}
		if after.Valid {
			_ = json.Unmarshal([]byte(after.String), &log.AfterState)
		}
		logs = append(logs, &log)
	}
	return logs, classify(rows.Err(), nil)
}

func marshalState(state domain.JSON) (sql.NullString, error) {
	if state == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(state)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func optionalUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func nullTime(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromUnix(n.Int64)
	return &t
}

func optionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
