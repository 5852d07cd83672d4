package models

import (
	"opsboard/core/liststore"
	"opsboard/core/projection"
	checklist "opsboard/feature/checklist/models"
)

// Snapshot is the archived state of one task on one day. Status holds one
// value per operation code, each stored in a column named after the code.
type Snapshot struct {
	ID       string            `json:"id"`
	DataRef  string            `json:"dataRef"`
	TarefaID string            `json:"tarefaId"`
	Tarefa   string            `json:"tarefa"`
	Usuario  string            `json:"usuario"`
	Status   map[string]string `json:"status"`
}

// Key returns the title of the snapshot: date and task id.
func (s Snapshot) Key() string {
	return s.DataRef + "_" + s.TarefaID
}

// Table declares the fixed fields of a snapshot.
var Table = projection.Table{Fields: []projection.Field{
	{Name: "titulo", Kind: projection.String},
	{Name: "dataRef", Kind: projection.Date},
	{Name: "tarefaId", Kind: projection.String},
	{Name: "tarefa", Kind: projection.String},
	{Name: "usuario", Kind: projection.String},
}}

// StatusField declares each per-operation status value.
var StatusField = projection.Field{Name: "status", Kind: projection.Enum, Enum: checklist.Statuses}

// Values converts the fixed fields of s to logical values.
func (s Snapshot) Values() projection.Values {
	return projection.Values{
		"titulo":   s.Key(),
		"dataRef":  s.DataRef,
		"tarefaId": s.TarefaID,
		"tarefa":   s.Tarefa,
		"usuario":  s.Usuario,
	}
}

// SnapshotFrom builds a snapshot from decoded fixed values and statuses.
func SnapshotFrom(id string, v projection.Values, status map[string]string) Snapshot {
	return Snapshot{
		ID:       id,
		DataRef:  v.String("dataRef"),
		TarefaID: v.String("tarefaId"),
		Tarefa:   v.String("tarefa"),
		Usuario:  v.String("usuario"),
		Status:   status,
	}
}

// Columns used to provision the history list. Operation columns are added
// per deployment.
var Columns = []liststore.Column{
	{Name: "DataReferencia", DisplayName: "Data Referência"},
	{Name: "TarefaId", DisplayName: "Tarefa Id"},
	{Name: "Tarefa", DisplayName: "Tarefa"},
	{Name: "Usuario", DisplayName: "Usuário"},
}
