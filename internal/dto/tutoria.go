package dto

import (
	"strings"

	"github.com/noah-isme/tutoria-api/internal/models"
)

// TutoriaRequest is the JSON payload for creating or replacing a record. Owner
// fields are deliberately absent; the acting user is always the owner.
type TutoriaRequest struct {
	NomeTutor     string           `json:"nome_tutor"`
	NomeAluno     string           `json:"nome_aluno" validate:"required"`
	Serie         string           `json:"serie" validate:"required,serie"`
	TelAluno      string           `json:"tel_aluno"`
	ContatosExtra []models.Contact `json:"contatos_extra"`
	ProjetoVida   string           `json:"projeto_vida"`
	Descricoes    string           `json:"descricoes"`
	Ocorrencias   []string         `json:"ocorrencias" validate:"dive,ocorrencia"`
	Assinatura    string           `json:"assinatura"`
}

// Normalize trims text fields in place and drops repeated tags, keeping the
// first occurrence. The signature is kept verbatim.
func (r *TutoriaRequest) Normalize() {
	r.NomeTutor = strings.TrimSpace(r.NomeTutor)
	r.NomeAluno = strings.TrimSpace(r.NomeAluno)
	r.Serie = strings.TrimSpace(r.Serie)
	r.TelAluno = strings.TrimSpace(r.TelAluno)
	r.ProjetoVida = strings.TrimSpace(r.ProjetoVida)
	r.Descricoes = strings.TrimSpace(r.Descricoes)
	for i := range r.ContatosExtra {
		r.ContatosExtra[i].Nome = strings.TrimSpace(r.ContatosExtra[i].Nome)
		r.ContatosExtra[i].Telefone = strings.TrimSpace(r.ContatosExtra[i].Telefone)
	}
	if r.Ocorrencias != nil {
		seen := make(map[string]struct{}, len(r.Ocorrencias))
		tags := r.Ocorrencias[:0]
		for _, tag := range r.Ocorrencias {
			tag = strings.TrimSpace(tag)
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
		r.Ocorrencias = tags
	}
}

// Draft converts the payload into record content. Missing lists become empty.
func (r TutoriaRequest) Draft() models.TutoriaDraft {
	return models.TutoriaDraft{
		NomeTutor:     r.NomeTutor,
		NomeAluno:     r.NomeAluno,
		Serie:         r.Serie,
		TelAluno:      r.TelAluno,
		ContatosExtra: append(models.Contacts{}, r.ContatosExtra...),
		ProjetoVida:   r.ProjetoVida,
		Descricoes:    r.Descricoes,
		Ocorrencias:   append(models.Tags{}, r.Ocorrencias...),
		Assinatura:    r.Assinatura,
	}
}

// CarimboRequest is the stamp payload for the bulk and single stamp endpoints.
type CarimboRequest struct {
	Resp    string `json:"resp"`
	Inst    string `json:"inst"`
	Contato string `json:"contato"`
	Texto   string `json:"texto"`
	Obs     string `json:"obs"`
}

// Carimbo trims every value and applies the default status text.
func (r CarimboRequest) Carimbo() models.Carimbo {
	texto := strings.TrimSpace(r.Texto)
	if texto == "" {
		texto = models.DefaultCarimboTexto
	}
	return models.Carimbo{
		Resp:    strings.TrimSpace(r.Resp),
		Inst:    strings.TrimSpace(r.Inst),
		Contato: strings.TrimSpace(r.Contato),
		Texto:   texto,
		Obs:     strings.TrimSpace(r.Obs),
	}
}

// IDResponse carries the identifier of a created or updated record.
type IDResponse struct {
	ID int64 `json:"id"`
}

// StampResult reports how many records a bulk stamp touched.
type StampResult struct {
	Aplicados int64 `json:"aplicados"`
}

// TutoriaForm is what the form page needs to render a new, edited or duplicated
// record. ID is nil unless an existing record is being edited.
type TutoriaForm struct {
	ID          *int64
	Draft       models.TutoriaDraft
	Duplicating bool
}

// ExportFormat selects the rendering of the administrative export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportFile is a rendered report ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
