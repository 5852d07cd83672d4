package lists

import "fmt"

// Kind identifies a logical list independent of its remote identifier.
type Kind string

const (
	Tasks             Kind = "tarefas"
	Operations        Kind = "operacoes"
	Status            Kind = "status"
	History           Kind = "historico"
	Departures        Kind = "saidas"
	DeparturesHistory Kind = "saidas_historico"
	RouteMappings     Kind = "rotas"
)

// All lists every kind in provisioning order.
var All = []Kind{Tasks, Operations, Status, History, Departures, DeparturesHistory, RouteMappings}

// Config maps logical lists to remote list identifiers.
type Config struct {
	// Tasks is the checklist task definitions list.
	Tasks string `mapstructure:"tasks" default:"Tarefas"`
	// Operations is the operation definitions list.
	Operations string `mapstructure:"operations" default:"Operacoes"`
	// Status is the status cell list.
	Status string `mapstructure:"status" default:"StatusChecklist"`
	// History is the checklist history list.
	History string `mapstructure:"history" default:"HistoricoChecklist"`
	// Departures is the active route departures list.
	Departures string `mapstructure:"departures" default:"SaidasRotas"`
	// DeparturesHistory receives archived departures.
	DeparturesHistory string `mapstructure:"departures_history" default:"HistoricoSaidas"`
	// RouteMappings maps routes to operation codes.
	RouteMappings string `mapstructure:"route_mappings" default:"RotasOperacoes"`
	// TitleField is the field identifier holding each item's title.
	TitleField string `mapstructure:"title_field" default:"Title"`
	// Overrides pins logical fields to legacy field identifiers per list,
	// written as "kind.logical=Field;kind.logical=Field".
	Overrides string `mapstructure:"overrides" default:"status.operacao=OperacaoSigla;status.usuario=Respons_x00e1_vel;saidas.observacao=Observa_x00e7__x00e3_o;saidas.operacao=Opera_x00e7__x00e3_o;saidas_historico.observacao=Observa_x00e7__x00e3_o;saidas_historico.operacao=Opera_x00e7__x00e3_o;historico.dataref=DataReferencia"`
}

// ListID returns the remote list identifier configured for kind.
func (c Config) ListID(kind Kind) (string, error) {
	var id string
	switch kind {
	case Tasks:
		id = c.Tasks
	case Operations:
		id = c.Operations
	case Status:
		id = c.Status
	case History:
		id = c.History
	case Departures:
		id = c.Departures
	case DeparturesHistory:
		id = c.DeparturesHistory
	case RouteMappings:
		id = c.RouteMappings
	default:
		return "", fmt.Errorf("unknown list kind %q", kind)
	}
	if id == "" {
		return "", fmt.Errorf("no list configured for %q", kind)
	}
	return id, nil
}
