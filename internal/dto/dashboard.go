package dto

// DashboardQuery mirrors the supported dashboard filters (ISO dates).
type DashboardQuery struct {
	DataInicio string
	DataFim    string
}

// DashboardMetrics aggregates one period's worth of disputes.
type DashboardMetrics struct {
	Total           int     `json:"total"`
	ValorTotal      float64 `json:"valorTotal"`
	ValorRecuperado float64 `json:"valorRecuperado"`
	ValorPerdido    float64 `json:"valorPerdido"`
	RecoveryRate    float64 `json:"recoveryRate"`
	TicketMedio     float64 `json:"ticketMedio"`
}

// DashboardVariations holds percentage deltas against the previous period.
// Nil means no baseline to compare against.
type DashboardVariations struct {
	Total           *float64 `json:"total"`
	ValorTotal      *float64 `json:"valorTotal"`
	ValorRecuperado *float64 `json:"valorRecuperado"`
	ValorPerdido    *float64 `json:"valorPerdido"`
	TicketMedio     *float64 `json:"ticketMedio"`
}

// PreviousPeriod echoes the comparison window and its metrics.
type PreviousPeriod struct {
	Inicio string `json:"inicio"`
	Fim    string `json:"fim"`
	DashboardMetrics
}

// RestaurantPerformance is a per-branch rollup.
type RestaurantPerformance struct {
	Nome       string  `json:"nome"`
	Qtd        int     `json:"qtd"`
	Valor      float64 `json:"valor"`
	Recuperado float64 `json:"recuperado"`
	Marca      string  `json:"marca"`
}

// TopRestaurant ranks branches by dispute count.
type TopRestaurant struct {
	Nome  string  `json:"nome"`
	Qtd   int     `json:"qtd"`
	Valor float64 `json:"valor"`
}

// TopReason ranks cancellation reasons by dispute count.
type TopReason struct {
	Nome  string  `json:"nome"`
	Qtd   int     `json:"qtd"`
	Valor float64 `json:"valor"`
}

// DashboardResponse is the full dashboard payload.
type DashboardResponse struct {
	DashboardMetrics
	Variacoes       DashboardVariations     `json:"variacoes"`
	PeriodoAnterior *PreviousPeriod         `json:"periodoAnterior"`
	Restaurantes    []RestaurantPerformance `json:"restaurantes"`
	TopRestaurantes []TopRestaurant         `json:"topRestaurantes"`
	TopMotivos      []TopReason             `json:"topMotivos"`
}
