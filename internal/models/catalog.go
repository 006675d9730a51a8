package models

// Series lists the grade/class codes a record may belong to.
var Series = []string{
	"6A", "6B", "6C", "6D",
	"7A", "7B", "7C", "7D",
	"8A", "8B", "8C", "8D",
	"9A", "9B", "9C", "9D",
	"1EM-A", "1EM-B", "1EM-C",
	"2EM-A", "2TEC",
	"3EM-A", "3EM-B",
}

// Ocorrencias lists the incident categories a record may be tagged with.
var Ocorrencias = []string{
	"Pessoal",
	"Pedagogico",
	"Familia",
	"Prova paulista",
	"Notas Bimestrais",
	"Conflitos/Bullying",
	"Comportamentos",
	"Desatenção",
	"Desrespeito",
	"Emergencial",
}

var (
	seriesIndex     = toSet(Series)
	ocorrenciaIndex = toSet(Ocorrencias)
)

// Catalog bundles both lists for form rendering and the catalogue endpoint.
type Catalog struct {
	Series      []string `json:"series"`
	Ocorrencias []string `json:"ocorrencias"`
}

// DefaultCatalog returns copies of the fixed lists.
func DefaultCatalog() Catalog {
	return Catalog{
		Series:      append([]string(nil), Series...),
		Ocorrencias: append([]string(nil), Ocorrencias...),
	}
}

// IsSerie reports whether code is a known serie.
func IsSerie(code string) bool {
	_, ok := seriesIndex[code]
	return ok
}

// IsOcorrencia reports whether tag is a known incident category.
func IsOcorrencia(tag string) bool {
	_, ok := ocorrenciaIndex[tag]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
