package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bodedono/contestacoes-api/internal/dto"
	"github.com/bodedono/contestacoes-api/internal/models"
	appErrors "github.com/bodedono/contestacoes-api/pkg/errors"
)

// defaultComparisonDays is the trailing window used for period-over-period
// variation when the caller supplies no date filter.
const defaultComparisonDays = 30

type dashboardRepository interface {
	List(ctx context.Context) ([]models.Dispute, error)
}

// DashboardService aggregates disputes into the management dashboard payload.
// Results are cached per filter window; any store write invalidates them.
type DashboardService struct {
	repo     dashboardRepository
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(repo dashboardRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL, now: time.Now}
}

type dashboardRecord struct {
	date            time.Time
	valor           float64
	valorRecuperado float64
	motivo          string
	restaurante     string
}

// Build computes the dashboard for the given window. Both filter dates are
// optional ISO dates (YYYY-MM-DD). The boolean reports whether the payload
// came from cache.
func (s *DashboardService) Build(ctx context.Context, query dto.DashboardQuery) (*dto.DashboardResponse, bool, error) {
	inicio, err := parseISODate(query.DataInicio)
	if err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "dataInicio inválida, formato esperado YYYY-MM-DD")
	}
	fim, err := parseISODate(query.DataFim)
	if err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "dataFim inválida, formato esperado YYYY-MM-DD")
	}

	cacheKey := fmt.Sprintf("dashboard:%s:%s", query.DataInicio, query.DataFim)
	if s.cache != nil {
		var cached dto.DashboardResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, true, nil
		}
	}

	start := s.now()
	disputes, err := s.repo.List(ctx)
	if s.metrics != nil {
		s.metrics.ObserveStoreCall("dashboard_snapshot", s.now().Sub(start))
	}
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrRowStore.Code, appErrors.ErrRowStore.Status, "falha ao ler dados da planilha")
	}

	// Rows without a parseable opening date cannot be bucketed anywhere.
	records := make([]dashboardRecord, 0, len(disputes))
	for _, d := range disputes {
		parsed := models.ParseFlexibleDate(d.DataAbertura)
		if parsed == nil {
			continue
		}
		records = append(records, dashboardRecord{
			date:            *parsed,
			valor:           d.Valor,
			valorRecuperado: d.ValorRecuperado,
			motivo:          strings.TrimSpace(d.Motivo),
			restaurante:     NormalizeRestaurantName(d.Restaurante),
		})
	}

	response := s.assemble(records, inicio, fim)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache set failed", zap.Error(err))
		}
	}
	return response, false, nil
}

func (s *DashboardService) assemble(records []dashboardRecord, inicio, fim *time.Time) *dto.DashboardResponse {
	unfiltered := inicio == nil && fim == nil

	windowStart, windowEnd := inicio, fim
	if unfiltered {
		end := endOfDay(s.now())
		startDay := startOfDay(end.AddDate(0, 0, -defaultComparisonDays))
		windowStart, windowEnd = &startDay, &end
	} else {
		if windowStart != nil {
			v := startOfDay(*windowStart)
			windowStart = &v
		}
		if windowEnd != nil {
			v := endOfDay(*windowEnd)
			windowEnd = &v
		} else {
			v := endOfDay(s.now())
			windowEnd = &v
		}
	}

	// Without filters the dashboard shows everything; the trailing window
	// only feeds the variation figures.
	current := records
	if !unfiltered {
		current = filterByWindow(records, windowStart, windowEnd)
	}
	comparison := current
	if unfiltered {
		comparison = filterByWindow(records, windowStart, windowEnd)
	}

	var previous []dashboardRecord
	var previousPeriod *dto.PreviousPeriod
	if windowStart != nil && windowEnd != nil {
		days := int(math.Ceil(windowEnd.Sub(*windowStart).Hours() / 24))
		prevEnd := endOfDay(windowStart.AddDate(0, 0, -1))
		prevStart := startOfDay(prevEnd.AddDate(0, 0, -days+1))
		previous = filterByWindow(records, &prevStart, &prevEnd)
		previousPeriod = &dto.PreviousPeriod{
			Inicio:           prevStart.UTC().Format(time.RFC3339),
			Fim:              prevEnd.UTC().Format(time.RFC3339),
			DashboardMetrics: computeMetrics(previous),
		}
	}

	currentMetrics := computeMetrics(current)
	comparisonMetrics := computeMetrics(comparison)
	previousMetrics := computeMetrics(previous)

	response := &dto.DashboardResponse{
		DashboardMetrics: currentMetrics,
		Variacoes: dto.DashboardVariations{
			Total:           variation(float64(comparisonMetrics.Total), float64(previousMetrics.Total)),
			ValorTotal:      variation(comparisonMetrics.ValorTotal, previousMetrics.ValorTotal),
			ValorRecuperado: variation(comparisonMetrics.ValorRecuperado, previousMetrics.ValorRecuperado),
			ValorPerdido:    variation(comparisonMetrics.ValorPerdido, previousMetrics.ValorPerdido),
			TicketMedio:     variation(comparisonMetrics.TicketMedio, previousMetrics.TicketMedio),
		},
		PeriodoAnterior: previousPeriod,
		Restaurantes:    []dto.RestaurantPerformance{},
		TopRestaurantes: []dto.TopRestaurant{},
		TopMotivos:      []dto.TopReason{},
	}

	type branchAgg struct {
		qtd        int
		valor      float64
		recuperado float64
		marca      string
	}
	branches := make(map[string]*branchAgg)
	type reasonAgg struct {
		qtd   int
		valor float64
	}
	reasons := make(map[string]*reasonAgg)

	for _, r := range current {
		if r.restaurante != "" {
			if marca := BrandOf(r.restaurante); marca != "" {
				agg, ok := branches[r.restaurante]
				if !ok {
					agg = &branchAgg{marca: marca}
					branches[r.restaurante] = agg
				}
				agg.qtd++
				agg.valor += r.valor
				agg.recuperado += r.valorRecuperado
			}
		}

		if r.motivo != "" && !strings.EqualFold(r.motivo, "outros") {
			agg, ok := reasons[r.motivo]
			if !ok {
				agg = &reasonAgg{}
				reasons[r.motivo] = agg
			}
			agg.qtd++
			agg.valor += r.valor
		}
	}

	for nome, agg := range branches {
		response.Restaurantes = append(response.Restaurantes, dto.RestaurantPerformance{
			Nome:       nome,
			Qtd:        agg.qtd,
			Valor:      agg.valor,
			Recuperado: agg.recuperado,
			Marca:      agg.marca,
		})
	}
	sort.Slice(response.Restaurantes, func(a, b int) bool {
		ra, rb := response.Restaurantes[a], response.Restaurantes[b]
		if ra.Marca != rb.Marca {
			return ra.Marca < rb.Marca
		}
		return ra.Nome < rb.Nome
	})

	for _, p := range response.Restaurantes {
		response.TopRestaurantes = append(response.TopRestaurantes, dto.TopRestaurant{Nome: p.Nome, Qtd: p.Qtd, Valor: p.Valor})
	}
	sort.SliceStable(response.TopRestaurantes, func(a, b int) bool {
		return response.TopRestaurantes[a].Qtd > response.TopRestaurantes[b].Qtd
	})
	if len(response.TopRestaurantes) > 5 {
		response.TopRestaurantes = response.TopRestaurantes[:5]
	}

	for nome, agg := range reasons {
		response.TopMotivos = append(response.TopMotivos, dto.TopReason{Nome: nome, Qtd: agg.qtd, Valor: agg.valor})
	}
	sort.SliceStable(response.TopMotivos, func(a, b int) bool {
		ta, tb := response.TopMotivos[a], response.TopMotivos[b]
		if ta.Qtd != tb.Qtd {
			return ta.Qtd > tb.Qtd
		}
		return ta.Nome < tb.Nome
	})
	if len(response.TopMotivos) > 5 {
		response.TopMotivos = response.TopMotivos[:5]
	}

	return response
}

func computeMetrics(records []dashboardRecord) dto.DashboardMetrics {
	m := dto.DashboardMetrics{Total: len(records)}
	for _, r := range records {
		m.ValorTotal += r.valor
		m.ValorRecuperado += r.valorRecuperado
	}
	m.ValorPerdido = m.ValorTotal - m.ValorRecuperado
	if m.ValorTotal > 0 {
		m.RecoveryRate = m.ValorRecuperado / m.ValorTotal * 100
	}
	if m.Total > 0 {
		m.TicketMedio = m.ValorTotal / float64(m.Total)
	}
	return m
}

// variation returns the percentage delta against the previous value, nil
// when there is no previous value to compare against.
func variation(atual, anterior float64) *float64 {
	if anterior == 0 {
		if atual > 0 {
			v := 100.0
			return &v
		}
		return nil
	}
	v := (atual - anterior) / anterior * 100
	return &v
}

func filterByWindow(records []dashboardRecord, start, end *time.Time) []dashboardRecord {
	out := make([]dashboardRecord, 0, len(records))
	for _, r := range records {
		if start != nil && r.date.Before(*start) {
			continue
		}
		if end != nil && r.date.After(*end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func parseISODate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
