package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactsRoundTrip(t *testing.T) {
	in := Contacts{{Nome: "Ana", Telefone: "111"}}
	v, err := in.Value()
	require.NoError(t, err)
	assert.Equal(t, `[{"nome":"Ana","telefone":"111"}]`, v)

	var out Contacts
	require.NoError(t, out.Scan([]byte(v.(string))))
	assert.Equal(t, in, out)
}

func TestContactsNilEncodesEmptyArray(t *testing.T) {
	v, err := Contacts(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var out Contacts
	require.NoError(t, out.Scan(nil))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestContactsScanRejectsGarbage(t *testing.T) {
	var out Contacts
	assert.Error(t, out.Scan("not json"))
	assert.Error(t, out.Scan(42))
}

func TestTagsKeepCommas(t *testing.T) {
	in := Tags{"Pessoal", "Familia, escola"}
	v, err := in.Value()
	require.NoError(t, err)

	var out Tags
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestTagsScanLegacyCSV(t *testing.T) {
	var out Tags
	require.NoError(t, out.Scan("Pessoal,Familia"))
	assert.Equal(t, Tags{"Pessoal", "Familia"}, out)

	require.NoError(t, out.Scan(""))
	assert.Equal(t, Tags{}, out)
}

func TestDraftDetachesLists(t *testing.T) {
	rec := Tutoria{
		ID:          9,
		ProfessorID: 3,
		TutoriaDraft: TutoriaDraft{
			NomeAluno:     "Bia",
			Serie:         "7A",
			ContatosExtra: Contacts{{Nome: "Mãe", Telefone: "222"}},
			Ocorrencias:   Tags{"Pessoal"},
		},
		Carimbo: Carimbo{Resp: "Diretora", Texto: DefaultCarimboTexto},
	}

	d := rec.Draft()
	d.ContatosExtra[0].Nome = "Pai"
	d.Ocorrencias[0] = "Familia"

	assert.Equal(t, "Mãe", rec.ContatosExtra[0].Nome)
	assert.Equal(t, "Pessoal", rec.Ocorrencias[0])
	assert.Equal(t, "Bia", d.NomeAluno)
	assert.True(t, rec.HasOcorrencia("Pessoal"))
}

func TestTutoriaJSONNestsCarimbo(t *testing.T) {
	rec := Tutoria{ID: 1, Carimbo: Carimbo{Resp: "R", Texto: DefaultCarimboTexto}}
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	stamp, ok := decoded["carimbo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "R", stamp["resp"])
	assert.Contains(t, decoded, "nome_aluno")
	assert.NotContains(t, decoded, "resp")
}

func TestAuthContextCanEdit(t *testing.T) {
	owner := AuthContext{UserID: 1, Role: RoleProfessor}
	other := AuthContext{UserID: 2, Role: RoleProfessor}
	gestao := AuthContext{UserID: 3, Role: RoleGestao}

	assert.True(t, owner.CanEdit(1))
	assert.False(t, other.CanEdit(1))
	assert.True(t, gestao.CanEdit(1))
	assert.False(t, AuthContext{}.CanEdit(0))
	// the PIN mode alone does not grant ownership
	assert.False(t, AuthContext{UserID: 2, Role: RoleProfessor, GestaoMode: true}.CanEdit(1))
}

func TestCatalog(t *testing.T) {
	assert.True(t, IsSerie("2TEC"))
	assert.False(t, IsSerie("2TEC "))
	assert.True(t, IsOcorrencia("Desatenção"))
	assert.False(t, IsOcorrencia("Outro"))

	c := DefaultCatalog()
	c.Series[0] = "X"
	assert.Equal(t, "6A", Series[0])
}
