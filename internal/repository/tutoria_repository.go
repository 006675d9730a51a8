package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoria-api/internal/models"
)

// Columns added by later migrations are nullable on old rows.
const tutoriaColumns = `id, professor_id, COALESCE(nome_tutor, '') AS nome_tutor, nome_aluno, serie,
	COALESCE(tel_aluno, '') AS tel_aluno, contatos_extra, COALESCE(projeto_vida, '') AS projeto_vida,
	COALESCE(descricoes, '') AS descricoes, ocorrencias, COALESCE(assinatura, '') AS assinatura,
	COALESCE(carimbo_resp, '') AS carimbo_resp, COALESCE(carimbo_inst, '') AS carimbo_inst,
	COALESCE(carimbo_contato, '') AS carimbo_contato, COALESCE(carimbo_texto, '') AS carimbo_texto,
	COALESCE(carimbo_obs, '') AS carimbo_obs, criado_em, atualizado_em`

// TutoriaFilter scopes record listings.
type TutoriaFilter struct {
	ProfessorID *int64
}

// TutoriaRepository provides database access for tutoring records.
type TutoriaRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewTutoriaRepository constructs the repository.
func NewTutoriaRepository(db *sqlx.DB) *TutoriaRepository {
	return &TutoriaRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a record owned by professorID and returns its id.
func (r *TutoriaRepository) Create(ctx context.Context, professorID int64, draft models.TutoriaDraft) (int64, error) {
	now := r.now()
	const query = `INSERT INTO tutorias (professor_id, nome_tutor, nome_aluno, serie, tel_aluno, contatos_extra, projeto_vida, descricoes, ocorrencias, assinatura, criado_em, atualizado_em)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		professorID, draft.NomeTutor, draft.NomeAluno, draft.Serie, draft.TelAluno, draft.ContatosExtra,
		draft.ProjetoVida, draft.Descricoes, draft.Ocorrencias, draft.Assinatura, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create tutoria: %w", err)
	}
	return id, nil
}

// FindByID loads a record. Missing rows surface as sql.ErrNoRows.
func (r *TutoriaRepository) FindByID(ctx context.Context, id int64) (*models.Tutoria, error) {
	query := `SELECT ` + tutoriaColumns + ` FROM tutorias WHERE id = $1`
	var t models.Tutoria
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find tutoria: %w", err)
	}
	return &t, nil
}

// List returns records newest first, optionally limited to one professor.
func (r *TutoriaRepository) List(ctx context.Context, filter TutoriaFilter) ([]models.Tutoria, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.ProfessorID != nil {
		args = append(args, *filter.ProfessorID)
		conditions = append(conditions, fmt.Sprintf("professor_id = $%d", len(args)))
	}

	query := `SELECT ` + tutoriaColumns + ` FROM tutorias`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY criado_em DESC, id DESC"

	items := []models.Tutoria{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list tutorias: %w", err)
	}
	return items, nil
}

// Update replaces every editable field of a record. Owner and carimbo are kept.
func (r *TutoriaRepository) Update(ctx context.Context, id int64, draft models.TutoriaDraft) error {
	const query = `UPDATE tutorias SET nome_tutor = $2, nome_aluno = $3, serie = $4, tel_aluno = $5, contatos_extra = $6,
projeto_vida = $7, descricoes = $8, ocorrencias = $9, assinatura = $10, atualizado_em = $11 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		id, draft.NomeTutor, draft.NomeAluno, draft.Serie, draft.TelAluno, draft.ContatosExtra,
		draft.ProjetoVida, draft.Descricoes, draft.Ocorrencias, draft.Assinatura, r.now(),
	)
	if err != nil {
		return fmt.Errorf("update tutoria: %w", err)
	}
	return expectRow(res, "update tutoria")
}

// Delete removes a record permanently.
func (r *TutoriaRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tutorias WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tutoria: %w", err)
	}
	return expectRow(res, "delete tutoria")
}

// StampAll writes the carimbo onto every record and returns the number touched.
func (r *TutoriaRepository) StampAll(ctx context.Context, stamp models.Carimbo) (int64, error) {
	const query = `UPDATE tutorias SET carimbo_resp = $1, carimbo_inst = $2, carimbo_contato = $3, carimbo_texto = $4, carimbo_obs = $5, atualizado_em = $6`
	res, err := r.db.ExecContext(ctx, query, stamp.Resp, stamp.Inst, stamp.Contato, stamp.Texto, stamp.Obs, r.now())
	if err != nil {
		return 0, fmt.Errorf("stamp tutorias: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("stamp tutorias rows affected: %w", err)
	}
	return n, nil
}

// StampOne writes the carimbo onto a single record.
func (r *TutoriaRepository) StampOne(ctx context.Context, id int64, stamp models.Carimbo) error {
	const query = `UPDATE tutorias SET carimbo_resp = $2, carimbo_inst = $3, carimbo_contato = $4, carimbo_texto = $5, carimbo_obs = $6, atualizado_em = $7 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, stamp.Resp, stamp.Inst, stamp.Contato, stamp.Texto, stamp.Obs, r.now())
	if err != nil {
		return fmt.Errorf("stamp tutoria: %w", err)
	}
	return expectRow(res, "stamp tutoria")
}

func expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
