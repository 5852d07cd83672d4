package models

import (
	"strings"

	"opsboard/core/liststore"
	"opsboard/core/projection"
	"opsboard/core/timegap"
)

// Departure is one route departure.
// An empty ID or a non-numeric one means the departure was never persisted.
type Departure struct {
	ID         string `json:"id"`
	Rota       string `json:"rota"`
	Data       string `json:"data"`
	Inicio     string `json:"inicio"`
	Motorista  string `json:"motorista"`
	Placa      string `json:"placa"`
	Saida      string `json:"saida"`
	Motivo     string `json:"motivo"`
	Observacao string `json:"observacao"`
	Operacao   string `json:"operacao"`
	Tempo      string `json:"tempo"`
	StatusOp   string `json:"statusOp"`
}

// Unlinked reports whether the departure has no operation code yet.
func (d Departure) Unlinked() bool {
	return strings.TrimSpace(d.Operacao) == ""
}

// RouteMapping links a route identifier to the operation that runs it.
type RouteMapping struct {
	ID       string `json:"id"`
	Rota     string `json:"rota"`
	Operacao string `json:"operacao"`
}

// DepartureTable declares the logical fields of a departure. The same table
// serves the active list and the history list.
var DepartureTable = projection.Table{Fields: []projection.Field{
	{Name: "rota", Kind: projection.String},
	{Name: "data", Kind: projection.Date},
	{Name: "inicio", Kind: projection.Time},
	{Name: "motorista", Kind: projection.String},
	{Name: "placa", Kind: projection.String},
	{Name: "saida", Kind: projection.Time},
	{Name: "motivo", Kind: projection.String},
	{Name: "observacao", Kind: projection.String},
	{Name: "operacao", Kind: projection.String},
	{Name: "tempo", Kind: projection.Time},
	{Name: "statusOp", Kind: projection.Enum, Enum: []string{timegap.StatusOK, timegap.StatusLate, timegap.StatusEarly}},
}}

// RouteMappingTable declares the logical fields of a route mapping.
var RouteMappingTable = projection.Table{Fields: []projection.Field{
	{Name: "rota", Kind: projection.String},
	{Name: "operacao", Kind: projection.String},
}}

// Editable lists the fields an inline edit may change.
var Editable = map[string]struct{}{
	"rota": {}, "data": {}, "inicio": {}, "motorista": {}, "placa": {},
	"saida": {}, "motivo": {}, "observacao": {}, "operacao": {},
}

// Values converts d to logical values.
func (d Departure) Values() projection.Values {
	return projection.Values{
		"rota":       d.Rota,
		"data":       d.Data,
		"inicio":     d.Inicio,
		"motorista":  d.Motorista,
		"placa":      d.Placa,
		"saida":      d.Saida,
		"motivo":     d.Motivo,
		"observacao": d.Observacao,
		"operacao":   d.Operacao,
		"tempo":      d.Tempo,
		"statusOp":   d.StatusOp,
	}
}

// DepartureFrom builds a departure from decoded values.
func DepartureFrom(id string, v projection.Values) Departure {
	return Departure{
		ID:         id,
		Rota:       v.String("rota"),
		Data:       v.String("data"),
		Inicio:     v.String("inicio"),
		Motorista:  v.String("motorista"),
		Placa:      v.String("placa"),
		Saida:      v.String("saida"),
		Motivo:     v.String("motivo"),
		Observacao: v.String("observacao"),
		Operacao:   v.String("operacao"),
		Tempo:      v.String("tempo"),
		StatusOp:   v.String("statusOp"),
	}
}

// Set assigns one logical field. It reports false for fields that cannot be edited.
func (d *Departure) Set(field, value string) bool {
	if _, ok := Editable[field]; !ok {
		return false
	}
	switch field {
	case "rota":
		d.Rota = value
	case "data":
		d.Data = value
	case "inicio":
		d.Inicio = value
	case "motorista":
		d.Motorista = value
	case "placa":
		d.Placa = value
	case "saida":
		d.Saida = value
	case "motivo":
		d.Motivo = value
	case "observacao":
		d.Observacao = value
	case "operacao":
		d.Operacao = value
	}
	return true
}

// Columns used to provision the departure lists on the SQL backend.
var (
	DepartureColumns = []liststore.Column{
		{Name: "Data", DisplayName: "Data"},
		{Name: "Inicio", DisplayName: "Início"},
		{Name: "Motorista", DisplayName: "Motorista"},
		{Name: "Placa", DisplayName: "Placa"},
		{Name: "Saida", DisplayName: "Saída"},
		{Name: "Motivo", DisplayName: "Motivo"},
		{Name: "Observa_x00e7__x00e3_o", DisplayName: "Observação"},
		{Name: "Opera_x00e7__x00e3_o", DisplayName: "Operação"},
		{Name: "Tempo", DisplayName: "Tempo"},
		{Name: "StatusOp", DisplayName: "Status Op"},
	}
	RouteMappingColumns = []liststore.Column{
		{Name: "Opera_x00e7__x00e3_o", DisplayName: "Operação"},
	}
)
