package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultCarimboTexto is written when a stamp call omits its status text.
const DefaultCarimboTexto = "ÊXITO VISTADO"

// Contact is an extra contact attached to a record.
type Contact struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
}

// Contacts is an ordered contact list stored as a JSON array.
type Contacts []Contact

// Value implements driver.Valuer.
func (c Contacts) Value() (driver.Value, error) {
	if c == nil {
		c = Contacts{}
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode contatos: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (c *Contacts) Scan(src interface{}) error {
	raw, err := textValue(src)
	if err != nil {
		return fmt.Errorf("scan contatos: %w", err)
	}
	if raw == "" {
		*c = Contacts{}
		return nil
	}
	var out Contacts
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fmt.Errorf("scan contatos: %w", err)
	}
	if out == nil {
		out = Contacts{}
	}
	*c = out
	return nil
}

// Tags is a set of incident categories stored as a JSON array. Rows written by
// older releases hold a comma-joined list, which Scan still understands.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode ocorrencias: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src interface{}) error {
	raw, err := textValue(src)
	if err != nil {
		return fmt.Errorf("scan ocorrencias: %w", err)
	}
	if raw == "" {
		*t = Tags{}
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var out Tags
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return fmt.Errorf("scan ocorrencias: %w", err)
		}
		if out == nil {
			out = Tags{}
		}
		*t = out
		return nil
	}

	out := Tags{}
	for _, part := range strings.Split(raw, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	*t = out
	return nil
}

func textValue(src interface{}) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case []byte:
		return strings.TrimSpace(string(v)), nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}

// TutoriaDraft holds the content of a record that is not (or not yet) persisted.
// It has no identity and no administrative fields; saving a draft always creates
// a new record.
type TutoriaDraft struct {
	NomeTutor     string   `db:"nome_tutor" json:"nome_tutor"`
	NomeAluno     string   `db:"nome_aluno" json:"nome_aluno"`
	Serie         string   `db:"serie" json:"serie"`
	TelAluno      string   `db:"tel_aluno" json:"tel_aluno"`
	ContatosExtra Contacts `db:"contatos_extra" json:"contatos_extra"`
	ProjetoVida   string   `db:"projeto_vida" json:"projeto_vida"`
	Descricoes    string   `db:"descricoes" json:"descricoes"`
	Ocorrencias   Tags     `db:"ocorrencias" json:"ocorrencias"`
	Assinatura    string   `db:"assinatura" json:"assinatura"`
}

// HasOcorrencia reports whether tag is selected in the draft.
func (d TutoriaDraft) HasOcorrencia(tag string) bool {
	for _, t := range d.Ocorrencias {
		if t == tag {
			return true
		}
	}
	return false
}

// Carimbo is the administrative stamp written in gestão mode.
type Carimbo struct {
	Resp    string `db:"carimbo_resp" json:"resp"`
	Inst    string `db:"carimbo_inst" json:"inst"`
	Contato string `db:"carimbo_contato" json:"contato"`
	Texto   string `db:"carimbo_texto" json:"texto"`
	Obs     string `db:"carimbo_obs" json:"obs"`
}

// Tutoria is a persisted tutoring record.
type Tutoria struct {
	ID          int64 `db:"id" json:"id"`
	ProfessorID int64 `db:"professor_id" json:"professor_id"`
	TutoriaDraft
	Carimbo      `json:"carimbo"`
	CriadoEm     time.Time `db:"criado_em" json:"criado_em"`
	AtualizadoEm time.Time `db:"atualizado_em" json:"atualizado_em"`
}

// Draft returns a detached copy of the record content, suitable as the template
// for a new record.
func (t Tutoria) Draft() TutoriaDraft {
	d := t.TutoriaDraft
	d.ContatosExtra = append(Contacts{}, t.ContatosExtra...)
	d.Ocorrencias = append(Tags{}, t.Ocorrencias...)
	return d
}
