package service

import (
	"strings"

	"github.com/bodedono/contestacoes-api/internal/models"
)

// The vendor free-text fields (branch names, cancellation reasons) are noisy.
// Normalization is a best-effort projection onto a known taxonomy: an exact
// lookup first, then ordered keyword rules, then the cleaned input unchanged.
// Rule order is load-bearing: reordering changes how ambiguous inputs
// classify.

// restaurantExact maps historical raw spellings (uppercased) to canonical
// branch names, covering abbreviations, parenthetical branch codes and accent
// variants seen in past reports.
var restaurantExact = map[string]string{
	"BODE DO NÔ (AF)":       "Bode do Nô Afogados",
	"BODE DO NÔ AFOGADOS":   "Bode do Nô Afogados",
	"BODE DO NO AFOGADOS":   "Bode do Nô Afogados",
	"BODE DO NÔ (GUA)":      "Bode do Nô Guararapes",
	"BODE DO NÔ GUARARAPES": "Bode do Nô Guararapes",
	"BODE DO NO GUARARAPES": "Bode do Nô Guararapes",
	"BODE DO NÔ (OL)":       "Bode do Nô Olinda",
	"BODE DO NÔ OLINDA":     "Bode do Nô Olinda",
	"BODE DO NO OLINDA":     "Bode do Nô Olinda",
	"BODE DO NÔ (TACA)":     "Bode do Nô Tacaruna",
	"BODE DO NÔ TACARUNA":   "Bode do Nô Tacaruna",
	"BODE DO NO TACARUNA":   "Bode do Nô Tacaruna",
	"BODE DO NÔ - BOA VIAGEM": "Bode do Nô Boa Viagem",
	"BODE DO NÔ BOA VIAGEM":   "Bode do Nô Boa Viagem",
	"BODE DO NO BOA VIAGEM":   "Bode do Nô Boa Viagem",

	"BURGUER DO NÔ (GUARA)":      "Burguer do Nô Guararapes",
	"BURGUER DO NÔ GUARARAPES":   "Burguer do Nô Guararapes",
	"BURGUER DO NO GUARARAPES":   "Burguer do Nô Guararapes",
	"BURGUER DO NÔ (ALMOÇO)":     "Burguer do Nô Almoço",
	"BURGUER DO NÔ ALMOÇO":       "Burguer do Nô Almoço",
	"BURGUER DO NÔ - (BOA VIAGEM)": "Burguer do Nô Boa Viagem",
	"BURGUER DO NÔ BOA VIAGEM":     "Burguer do Nô Boa Viagem",
	"BURGUER DO NO BOA VIAGEM":     "Burguer do Nô Boa Viagem",
	"BURGUER DO NÔ (RM)":           "Burguer do Nô Rio Mar",
	"BURGUER DO NÔ RM":             "Burguer do Nô Rio Mar",
	"BURGUER DO NO RM":             "Burguer do Nô Rio Mar",
	"BURGUER DO NÔ RIO MAR":        "Burguer do Nô Rio Mar",
	"BURGUER DO NO RIO MAR":        "Burguer do Nô Rio Mar",
	"BURGUER DO NÔ - RECIFE":       "Burguer do Nô Boa Viagem",
	"BURGUER DO NÔ (RECIFE)":       "Burguer do Nô Boa Viagem",
	"BURGUER DO NÔ RECIFE":         "Burguer do Nô Boa Viagem",
	"BURGUER DO NO RECIFE":         "Burguer do Nô Boa Viagem",

	"ITALIANÔ PIZZAS (GUA)":      "Italianô Pizzas Guararapes",
	"ITALIANÔ PIZZAS GUARARAPES": "Italianô Pizzas Guararapes",
	"ITALIANO PIZZAS GUARARAPES": "Italianô Pizzas Guararapes",
	"ITALIANÔ PIZZAS (OL)":       "Italianô Pizzas Olinda",
	"ITALIANÔ PIZZAS OLINDA":     "Italianô Pizzas Olinda",
	"ITALIANO PIZZAS OLINDA":     "Italianô Pizzas Olinda",
	"ITALIANÔ PIZZAS (AFOGADOS)": "Italianô Pizzas Afogados",
	"ITALIANÔ PIZZAS AFOGADOS":   "Italianô Pizzas Afogados",
	"ITALIANO PIZZAS AFOGADOS":   "Italianô Pizzas Afogados",
	"ITALIANÔ PIZZAS (TACA)":     "Italianô Pizzas Tacaruna",
	"ITALIANÔ PIZZAS TACARUNA":   "Italianô Pizzas Tacaruna",
	"ITALIANO PIZZAS TACARUNA":   "Italianô Pizzas Tacaruna",
	"ITALIANÔ PIZZAS (RECIFE)":   "Italianô Pizzas Guararapes",
}

type locationRule struct {
	keywords  []string
	canonical string
}

type brandRule struct {
	keywords  []string
	locations []locationRule
}

// brandRules is evaluated in order; within a brand, locations are evaluated
// in order. First match wins.
var brandRules = []brandRule{
	{
		keywords: []string{"bode"},
		locations: []locationRule{
			{[]string{"(af)", "afogados", "afog"}, "Bode do Nô Afogados"},
			{[]string{"(gua)", "guararapes", "guara"}, "Bode do Nô Guararapes"},
			{[]string{"(ol)", "olinda"}, "Bode do Nô Olinda"},
			{[]string{"(taca)", "tacaruna"}, "Bode do Nô Tacaruna"},
			{[]string{"boa viagem", "bv"}, "Bode do Nô Boa Viagem"},
		},
	},
	{
		keywords: []string{"burguer"},
		locations: []locationRule{
			{[]string{"(guara)", "guararapes"}, "Burguer do Nô Guararapes"},
			{[]string{"(almoço)", "(almoco)", "almoço", "almoco"}, "Burguer do Nô Almoço"},
			{[]string{"boa viagem", "bv", "recife"}, "Burguer do Nô Boa Viagem"},
			{[]string{"(rm)", " rm", "rio mar"}, "Burguer do Nô Rio Mar"},
		},
	},
	{
		keywords: []string{"italiano", "italianô", "italian"},
		locations: []locationRule{
			{[]string{"(gua)", "guararapes", "guara"}, "Italianô Pizzas Guararapes"},
			{[]string{"(ol)", "olinda"}, "Italianô Pizzas Olinda"},
			{[]string{"(af)", "afogados", "afog"}, "Italianô Pizzas Afogados"},
			{[]string{"(taca)", "tacaruna"}, "Italianô Pizzas Tacaruna"},
		},
	},
}

// NormalizeRestaurantName projects a noisy branch name onto the canonical
// set. Unknown names come back cleaned but otherwise untouched.
func NormalizeRestaurantName(raw string) string {
	if raw == "" {
		return ""
	}

	clean := strings.Join(strings.Fields(raw), " ")

	if canonical, ok := restaurantExact[strings.ToUpper(clean)]; ok {
		return canonical
	}

	lower := strings.ToLower(clean)
	for _, brand := range brandRules {
		if !containsAny(lower, brand.keywords) {
			continue
		}
		for _, loc := range brand.locations {
			if containsAny(lower, loc.keywords) {
				return loc.canonical
			}
		}
	}

	return clean
}

// ReasonClassification is the canonical reading of a cancellation reason.
type ReasonClassification struct {
	Responsavel      models.ResponsibleParty
	MotivoEspecifico string
	Contestavel      bool
}

var reasonExact = map[string]ReasonClassification{
	"Cliente ausente":         {models.PartyCliente, "Cliente ausente", false},
	"Endereço incorreto":      {models.PartyCliente, "Endereço incorreto", false},
	"Cliente cancelou":        {models.PartyCliente, "Cliente solicitou cancelamento", false},
	"Telefone não atende":     {models.PartyCliente, "Telefone não atende", false},
	"Cliente mudou de ideia":  {models.PartyCliente, "Cliente mudou de ideia", false},

	"Pedido ou item veio errado": {models.PartyRestaurante, "Erro no preparo", true},
	"Item indisponível":          {models.PartyRestaurante, "Falta de produto", true},
	"Produto não disponível":     {models.PartyRestaurante, "Falta de produto", true},
	"Falta de ingrediente":       {models.PartyRestaurante, "Falta de carne", true},
	"Loja fechada":               {models.PartyRestaurante, "Loja fechou mais cedo", true},
	"Erro no pedido":             {models.PartyRestaurante, "Erro no preparo", true},
	"Atraso na produção":         {models.PartyRestaurante, "Atraso na produção", true},

	"Atraso na entrega":        {models.PartyLogistica, "Motoboy atrasou muito", true},
	"Erro do entregador":       {models.PartyLogistica, "Problema no app do entregador", true},
	"Entregador não encontrou": {models.PartyLogistica, "Motoboy não encontrou endereço", true},
	"Acidente":                 {models.PartyLogistica, "Acidente com motoboy", true},
	"Moto quebrada":            {models.PartyLogistica, "Moto quebrou", true},

	"Problemas de sistema":     {models.PartyPlataforma, "Sistema iFood fora do ar", true},
	"Sistema - falha técnica":  {models.PartyPlataforma, "Falha na integração", true},
	"Erro no aplicativo":       {models.PartyPlataforma, "Erro no aplicativo", true},
	"Falha no pagamento":       {models.PartyPlataforma, "Problema no pagamento online", true},
	"Pedido duplicado":         {models.PartyPlataforma, "Pedido duplicado", true},
}

type reasonKeywordRule struct {
	keywords    []string
	responsavel models.ResponsibleParty
	// keepRaw preserves the raw reason as the specific one instead of a
	// fixed group label.
	keepRaw     bool
	label       string
	contestavel bool
}

var reasonKeywordRules = []reasonKeywordRule{
	{keywords: []string{"cliente", "ausente", "endereço"}, responsavel: models.PartyCliente, keepRaw: true, contestavel: false},
	{keywords: []string{"produto", "item", "falta"}, responsavel: models.PartyRestaurante, label: "Falta de produto", contestavel: true},
	{keywords: []string{"entrega", "moto", "atraso"}, responsavel: models.PartyLogistica, label: "Motoboy atrasou muito", contestavel: true},
	{keywords: []string{"sistema", "app", "falha"}, responsavel: models.PartyPlataforma, label: "Sistema iFood fora do ar", contestavel: true},
}

type originRule struct {
	responsavel models.ResponsibleParty
	contestavel bool
}

var originFallback = map[string]originRule{
	"RESTAURANTE": {models.PartyRestaurante, true},
	"CLIENTE":     {models.PartyCliente, false},
	"IFOOD":       {models.PartyPlataforma, true},
	"LOGISTICA":   {models.PartyLogistica, true},
	"LOGÍSTICA":   {models.PartyLogistica, true},
}

// ClassifyReason resolves a raw cancellation reason plus its origin tag into
// responsibility, specific reason and contestability. Precedence: exact table,
// keyword groups, origin fallback, then a platform default.
func ClassifyReason(motivo, origem string) ReasonClassification {
	if classification, ok := reasonExact[motivo]; ok {
		return classification
	}

	lower := strings.ToLower(motivo)
	for _, rule := range reasonKeywordRules {
		if !containsAny(lower, rule.keywords) {
			continue
		}
		specific := rule.label
		if rule.keepRaw {
			specific = motivo
		}
		return ReasonClassification{
			Responsavel:      rule.responsavel,
			MotivoEspecifico: specific,
			Contestavel:      rule.contestavel,
		}
	}

	if origin, ok := originFallback[strings.ToUpper(origem)]; ok {
		return ReasonClassification{
			Responsavel:      origin.responsavel,
			MotivoEspecifico: motivo,
			Contestavel:      origin.contestavel,
		}
	}

	return ReasonClassification{
		Responsavel:      models.PartyPlataforma,
		MotivoEspecifico: motivo,
		Contestavel:      true,
	}
}

// BrandOf deduces the brand from a canonical (or raw) restaurant name, empty
// when the name belongs to none of the known brands.
func BrandOf(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "burguer"):
		return "Burguer do Nô"
	case strings.Contains(lower, "italiano") || strings.Contains(lower, "italianô"):
		return "Italianô Pizzas"
	case strings.Contains(lower, "bode"):
		return "Bode do Nô"
	default:
		return ""
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
