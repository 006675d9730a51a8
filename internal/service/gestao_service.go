package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoria-api/internal/dto"
	"github.com/noah-isme/tutoria-api/internal/models"
	"github.com/noah-isme/tutoria-api/internal/repository"
	appErrors "github.com/noah-isme/tutoria-api/pkg/errors"
	"github.com/noah-isme/tutoria-api/pkg/export"
)

type gestaoUserRepository interface {
	ListSummaries(ctx context.Context) ([]models.ProfessorSummary, error)
}

type gestaoTutoriaRepository interface {
	List(ctx context.Context, filter repository.TutoriaFilter) ([]models.Tutoria, error)
	StampAll(ctx context.Context, stamp models.Carimbo) (int64, error)
	StampOne(ctx context.Context, id int64, stamp models.Carimbo) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// GestaoService implements the reports and stamp operations available in
// gestão mode.
type GestaoService struct {
	users    gestaoUserRepository
	tutorias gestaoTutoriaRepository
	csv      csvRenderer
	pdf      pdfRenderer
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewGestaoService constructs the service.
func NewGestaoService(users gestaoUserRepository, tutorias gestaoTutoriaRepository, csv csvRenderer, pdf pdfRenderer, metrics *MetricsService, logger *zap.Logger) *GestaoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &GestaoService{
		users:    users,
		tutorias: tutorias,
		csv:      csv,
		pdf:      pdf,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Professores lists every account by username.
func (s *GestaoService) Professores(ctx context.Context, auth models.AuthContext) ([]models.ProfessorSummary, error) {
	if err := requireGestao(auth); err != nil {
		return nil, err
	}
	users, err := s.users.ListSummaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// Tutorias returns every record newest first.
func (s *GestaoService) Tutorias(ctx context.Context, auth models.AuthContext) ([]models.Tutoria, error) {
	if err := requireGestao(auth); err != nil {
		return nil, err
	}
	items, err := s.tutorias.List(ctx, repository.TutoriaFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutorias")
	}
	return items, nil
}

// BulkStamp writes the same carimbo onto every record.
func (s *GestaoService) BulkStamp(ctx context.Context, auth models.AuthContext, req dto.CarimboRequest) (int64, error) {
	if err := requireGestao(auth); err != nil {
		return 0, err
	}
	n, err := s.tutorias.StampAll(ctx, req.Carimbo())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stamp tutorias")
	}
	s.metrics.RecordMutation(MutationStamp, n)
	s.logger.Info("bulk carimbo applied", zap.Int64("user_id", auth.UserID), zap.Int64("aplicados", n))
	return n, nil
}

// StampOne writes the carimbo onto a single record.
func (s *GestaoService) StampOne(ctx context.Context, auth models.AuthContext, id int64, req dto.CarimboRequest) error {
	if err := requireGestao(auth); err != nil {
		return err
	}
	if err := s.tutorias.StampOne(ctx, id, req.Carimbo()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stamp tutoria")
	}
	s.metrics.RecordMutation(MutationStamp, 1)
	s.logger.Info("carimbo applied", zap.Int64("user_id", auth.UserID), zap.Int64("tutoria_id", id))
	return nil
}

// Export renders the full record report as a downloadable file.
func (s *GestaoService) Export(ctx context.Context, auth models.AuthContext, format dto.ExportFormat) (*dto.ExportFile, error) {
	if err := requireGestao(auth); err != nil {
		return nil, err
	}
	if format == "" {
		format = dto.ExportCSV
	}
	if format != dto.ExportCSV && format != dto.ExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "formato de exportação inválido")
	}

	items, err := s.tutorias.List(ctx, repository.TutoriaFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutorias")
	}
	users, err := s.users.ListSummaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	dataset := buildTutoriaDataset(items, users)
	stamp := s.now().UTC().Format("20060102-150405")

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case dto.ExportPDF:
		payload, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	default:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &dto.ExportFile{
		Filename:    fmt.Sprintf("tutorias-%s.%s", stamp, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func requireGestao(auth models.AuthContext) error {
	if !auth.Authenticated() {
		return appErrors.ErrUnauthorized
	}
	if !auth.GestaoMode {
		return appErrors.ErrGestaoLocked
	}
	return nil
}

var tutoriaExportColumns = []export.Column{
	{Key: "id", Title: "ID", Weight: 0.5},
	{Key: "professor", Title: "Professor", Weight: 1.2},
	{Key: "nome_tutor", Title: "Tutor", Weight: 1.2},
	{Key: "nome_aluno", Title: "Aluno", Weight: 1.6},
	{Key: "serie", Title: "Série", Weight: 0.6},
	{Key: "tel_aluno", Title: "Telefone", Weight: 1},
	{Key: "contatos_extra", Title: "Contatos", Weight: 1.6},
	{Key: "ocorrencias", Title: "Ocorrências", Weight: 1.6},
	{Key: "projeto_vida", Title: "Projeto de vida", Weight: 1.6},
	{Key: "descricoes", Title: "Descrições", Weight: 1.6},
	{Key: "carimbo", Title: "Carimbo", Weight: 1.4},
	{Key: "criado_em", Title: "Criado em", Weight: 1},
}

func buildTutoriaDataset(items []models.Tutoria, users []models.ProfessorSummary) export.Dataset {
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	rows := make([]map[string]string, 0, len(items))
	for _, t := range items {
		contatos := make([]string, 0, len(t.ContatosExtra))
		for _, c := range t.ContatosExtra {
			contatos = append(contatos, strings.TrimSpace(c.Nome+" "+c.Telefone))
		}
		professor := names[t.ProfessorID]
		if professor == "" {
			professor = strconv.FormatInt(t.ProfessorID, 10)
		}
		rows = append(rows, map[string]string{
			"id":             strconv.FormatInt(t.ID, 10),
			"professor":      professor,
			"nome_tutor":     t.NomeTutor,
			"nome_aluno":     t.NomeAluno,
			"serie":          t.Serie,
			"tel_aluno":      t.TelAluno,
			"contatos_extra": strings.Join(contatos, "; "),
			"ocorrencias":    strings.Join(t.Ocorrencias, "; "),
			"projeto_vida":   t.ProjetoVida,
			"descricoes":     t.Descricoes,
			"carimbo":        formatCarimbo(t.Carimbo),
			"criado_em":      t.CriadoEm.Format("02/01/2006 15:04"),
		})
	}
	return export.Dataset{Title: "Relatório de tutorias", Columns: tutoriaExportColumns, Rows: rows}
}

func formatCarimbo(c models.Carimbo) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{c.Texto, c.Resp, c.Inst, c.Contato, c.Obs} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}
