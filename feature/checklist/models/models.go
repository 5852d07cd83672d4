package models

import (
	"fmt"
	"strings"

	"opsboard/core/liststore"
	"opsboard/core/projection"
)

// Status values of a cell.
const (
	StatusPending = "PR"
	StatusOK      = "OK"
	StatusNOK     = "NOK"
	StatusNA      = "NA"
)

// Statuses lists the accepted cell statuses, pending first.
var Statuses = []string{StatusPending, StatusOK, StatusNOK, StatusNA}

// Task is a checklist row.
type Task struct {
	ID        string `json:"id"`
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
	Ordem     int    `json:"ordem"`
	Ativa     bool   `json:"ativa"`
}

// Operation is a checklist column, identified by its code.
type Operation struct {
	ID    string `json:"id"`
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
	// Responsaveis holds the e-mails allowed to see the operation, separated
	// by commas or semicolons. Empty means everyone.
	Responsaveis string `json:"responsaveis"`
	Ordem        int    `json:"ordem"`
	Ativa        bool   `json:"ativa"`
}

// VisibleTo reports whether email may see the operation.
func (o Operation) VisibleTo(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return true
	}
	owners := strings.FieldsFunc(o.Responsaveis, func(r rune) bool { return r == ',' || r == ';' })
	if len(owners) == 0 {
		return true
	}
	for _, owner := range owners {
		if strings.EqualFold(strings.TrimSpace(owner), email) {
			return true
		}
	}
	return false
}

// StatusCell is the status of one task for one operation on one day.
type StatusCell struct {
	ID       string `json:"id"`
	TarefaID string `json:"tarefaId"`
	Operacao string `json:"operacao"`
	DataRef  string `json:"dataRef"`
	Status   string `json:"status"`
	Usuario  string `json:"usuario"`
}

// CellKey builds the composite key identifying a cell.
func CellKey(date, taskID, opCode string) string {
	return fmt.Sprintf("%s_%s_%s", date, taskID, opCode)
}

// Key returns the composite key of c.
func (c StatusCell) Key() string {
	return CellKey(c.DataRef, c.TarefaID, c.Operacao)
}

// Field tables.
var (
	TaskTable = projection.Table{Fields: []projection.Field{
		{Name: "titulo", Kind: projection.String},
		{Name: "descricao", Kind: projection.String},
		{Name: "ordem", Kind: projection.Int, Default: projection.OrderLast},
		{Name: "ativa", Kind: projection.Bool, Default: true},
	}}

	OperationTable = projection.Table{Fields: []projection.Field{
		{Name: "titulo", Kind: projection.String},
		{Name: "nome", Kind: projection.String},
		{Name: "responsaveis", Kind: projection.String},
		{Name: "ordem", Kind: projection.Int, Default: projection.OrderLast},
		{Name: "ativa", Kind: projection.Bool, Default: true},
	}}

	StatusTable = projection.Table{Fields: []projection.Field{
		{Name: "titulo", Kind: projection.String},
		{Name: "tarefaId", Kind: projection.String},
		{Name: "operacao", Kind: projection.String},
		{Name: "dataRef", Kind: projection.Date},
		{Name: "status", Kind: projection.Enum, Enum: Statuses},
		{Name: "usuario", Kind: projection.String},
	}}
)

// TaskFrom builds a task from decoded values.
func TaskFrom(id string, v projection.Values) Task {
	return Task{
		ID:        id,
		Titulo:    v.String("titulo"),
		Descricao: v.String("descricao"),
		Ordem:     v.Int("ordem"),
		Ativa:     v.Bool("ativa"),
	}
}

// OperationFrom builds an operation from decoded values.
func OperationFrom(id string, v projection.Values) Operation {
	return Operation{
		ID:           id,
		Sigla:        v.String("titulo"),
		Nome:         v.String("nome"),
		Responsaveis: v.String("responsaveis"),
		Ordem:        v.Int("ordem"),
		Ativa:        v.Bool("ativa"),
	}
}

// StatusCellFrom builds a cell from decoded values.
func StatusCellFrom(id string, v projection.Values) StatusCell {
	return StatusCell{
		ID:       id,
		TarefaID: v.String("tarefaId"),
		Operacao: v.String("operacao"),
		DataRef:  v.String("dataRef"),
		Status:   v.String("status"),
		Usuario:  v.String("usuario"),
	}
}

// Values converts c to logical values, with its composite key as title.
func (c StatusCell) Values() projection.Values {
	return projection.Values{
		"titulo":   c.Key(),
		"tarefaId": c.TarefaID,
		"operacao": c.Operacao,
		"dataRef":  c.DataRef,
		"status":   c.Status,
		"usuario":  c.Usuario,
	}
}

// Columns used to provision the checklist lists on the SQL backend.
var (
	TaskColumns = []liststore.Column{
		{Name: "Descricao", DisplayName: "Descrição"},
		{Name: "Ordem", DisplayName: "Ordem"},
		{Name: "Ativa", DisplayName: "Ativa"},
	}
	OperationColumns = []liststore.Column{
		{Name: "Nome", DisplayName: "Nome"},
		{Name: "Respons_x00e1_veis", DisplayName: "Responsáveis"},
		{Name: "Ordem", DisplayName: "Ordem"},
		{Name: "Ativa", DisplayName: "Ativa"},
	}
	StatusColumns = []liststore.Column{
		{Name: "TarefaId", DisplayName: "Tarefa Id"},
		{Name: "OperacaoSigla", DisplayName: "Operação"},
		{Name: "DataRef", DisplayName: "Data Ref"},
		{Name: "Status", DisplayName: "Status"},
		{Name: "Respons_x00e1_vel", DisplayName: "Responsável"},
	}
)
