package models

// Status of a dispute inside its lifecycle.
type Status string

const (
	StatusAguardando Status = "AGUARDANDO"
	StatusEmAnalise  Status = "EM ANALISE"
	StatusFinalizado Status = "FINALIZADO"
	StatusCancelado  Status = "CANCELADO"
)

// StatusPriority orders statuses for the monotonic progression rule. The
// automated import path only ever moves a record to a strictly higher
// priority; FINALIZADO and CANCELADO share the terminal level, so neither can
// replace the other once reached.
func StatusPriority(s Status) int {
	switch s {
	case StatusAguardando:
		return 1
	case StatusEmAnalise:
		return 2
	case StatusFinalizado, StatusCancelado:
		return 3
	default:
		return 0
	}
}

// ResponsibleParty identifies who caused a cancellation.
type ResponsibleParty string

const (
	PartyCliente     ResponsibleParty = "Cliente"
	PartyRestaurante ResponsibleParty = "Restaurante"
	PartyLogistica   ResponsibleParty = "Logística"
	PartyPlataforma  ResponsibleParty = "Plataforma"
)

// Column positions of a dispute row (0-indexed, columns A through O).
const (
	ColID               = 0
	ColDataAbertura     = 1
	ColNumeroPedido     = 2
	ColRestaurante      = 3
	ColMotivo           = 4
	ColDescricao        = 5
	ColValor            = 6
	ColStatus           = 7
	ColDataResolucao    = 8
	ColResultado        = 9
	ColValorRecuperado  = 10
	ColObservacoes      = 11
	ColAnexos           = 12
	ColResponsavel      = 13
	ColMotivoEspecifico = 14

	// ColumnCount is the width of a dispute row.
	ColumnCount = 15
)

// DataStartRow is the first physical (1-based) row holding dispute data; the
// two rows above it are headers. Array index i maps to physical row
// i + DataStartRow.
const DataStartRow = 3

// Dispute is one row of the store, with currency cells parsed to numbers.
type Dispute struct {
	ID               string  `json:"id"`
	RowIndex         int     `json:"rowIndex"`
	DataAbertura     string  `json:"dataAbertura"`
	NumeroPedido     string  `json:"numeroPedido"`
	Restaurante      string  `json:"restaurante"`
	Motivo           string  `json:"motivo"`
	Descricao        string  `json:"descricao"`
	Valor            float64 `json:"valor"`
	Status           Status  `json:"status"`
	DataResolucao    string  `json:"dataResolucao"`
	Resultado        string  `json:"resultado"`
	ValorRecuperado  float64 `json:"valorRecuperado"`
	Observacoes      string  `json:"observacoes"`
	Anexos           string  `json:"anexos"`
	Responsavel      string  `json:"responsavel"`
	MotivoEspecifico string  `json:"motivoEspecifico"`
}

// PhysicalRow converts the snapshot index to the 1-based sheet row.
func (d Dispute) PhysicalRow() int {
	return d.RowIndex + DataStartRow
}

// DisputeFromRow builds a Dispute from a raw store row. Missing trailing
// cells read as empty; unparseable currency reads as zero.
func DisputeFromRow(row []string, index int) Dispute {
	return Dispute{
		ID:               Cell(row, ColID),
		RowIndex:         index,
		DataAbertura:     Cell(row, ColDataAbertura),
		NumeroPedido:     Cell(row, ColNumeroPedido),
		Restaurante:      Cell(row, ColRestaurante),
		Motivo:           Cell(row, ColMotivo),
		Descricao:        Cell(row, ColDescricao),
		Valor:            ParseBRL(Cell(row, ColValor)),
		Status:           Status(Cell(row, ColStatus)),
		DataResolucao:    Cell(row, ColDataResolucao),
		Resultado:        Cell(row, ColResultado),
		ValorRecuperado:  ParseBRL(Cell(row, ColValorRecuperado)),
		Observacoes:      Cell(row, ColObservacoes),
		Anexos:           Cell(row, ColAnexos),
		Responsavel:      Cell(row, ColResponsavel),
		MotivoEspecifico: Cell(row, ColMotivoEspecifico),
	}
}

// StatusBlock is one resolution-block write (columns H through L) against an
// existing row. ValorRecuperado is already formatted as currency text.
type StatusBlock struct {
	PhysicalRow     int
	Status          Status
	DataResolucao   string
	Resultado       string
	ValorRecuperado string
	Observacoes     string
}

// RestaurantCell is one column-D rewrite, used by the normalization sweep.
type RestaurantCell struct {
	PhysicalRow int
	Value       string
}

// Cell reads a column from a raw row, tolerating short rows.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
