package dto

// EmptyRowDetail points at one blank row and a preview of what it held.
type EmptyRowDetail struct {
	Linha    int    `json:"linha"`
	Conteudo string `json:"conteudo"`
}

// EmptyRowsReport is the dry-run view of the empty-row sweep.
type EmptyRowsReport struct {
	TotalLinhas  int              `json:"totalLinhas"`
	LinhasVazias int              `json:"linhasVazias"`
	Detalhes     []EmptyRowDetail `json:"detalhes"`
}

// EmptyRowsCleanupResult reports how many blank rows were removed.
type EmptyRowsCleanupResult struct {
	Removidas int `json:"removidas"`
}

// DuplicateRecord is one member of a duplicate group.
type DuplicateRecord struct {
	ID                  string `json:"id"`
	Linha               int    `json:"linha"`
	RestauranteOriginal string `json:"restauranteOriginal"`
	Data                string `json:"data"`
	Valor               string `json:"valor"`
	ValorRecuperado     string `json:"valorRecuperado"`
	Status              string `json:"status"`
}

// DuplicateGroup gathers every row sharing the same identity key.
type DuplicateGroup struct {
	Chave        string            `json:"chave"`
	NumeroPedido string            `json:"numeroPedido"`
	Restaurante  string            `json:"restaurante"`
	Registros    []DuplicateRecord `json:"registros"`
}

// DuplicatesReport is the dry-run view of duplicate detection.
type DuplicatesReport struct {
	TotalGrupos     int              `json:"totalGrupos"`
	TotalDuplicatas int              `json:"totalDuplicatas"`
	Duplicatas      []DuplicateGroup `json:"duplicatas"`
}

// DuplicatesCleanupRequest removes rows either by ID or by physical row
// number; row numbers win when both are present.
type DuplicatesCleanupRequest struct {
	IDs    []string `json:"idsParaRemover"`
	Linhas []int    `json:"linhasParaRemover"`
}

// DuplicatesCleanupResult reports how many duplicate rows were removed.
type DuplicatesCleanupResult struct {
	Removidos int `json:"removidos"`
}

// NormalizationCandidate is one row whose restaurant name differs from its
// canonical form.
type NormalizationCandidate struct {
	Linha       int    `json:"linha"`
	Atual       string `json:"atual"`
	Normalizado string `json:"normalizado"`
}

// NormalizationReport is the dry-run view of the normalization sweep.
type NormalizationReport struct {
	Total       int                      `json:"total"`
	ANormalizar []NormalizationCandidate `json:"aNormalizar"`
	JaCorretos  int                      `json:"jaCorretos"`
}

// NormalizationChange records one applied rename.
type NormalizationChange struct {
	Linha int    `json:"linha"`
	De    string `json:"de"`
	Para  string `json:"para"`
}

// NormalizationResult reports the applied normalization sweep.
type NormalizationResult struct {
	Alteracoes int                   `json:"alteracoes"`
	Detalhes   []NormalizationChange `json:"detalhes"`
}
