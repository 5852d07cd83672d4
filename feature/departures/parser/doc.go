// Package parser recovers route departures from text pasted out of a spreadsheet.
//
// Rows carrying a DD/MM/YYYY or DD-MM-YYYY date are records. Rows with at
// least three tab-separated cells are read positionally in the order
//
//	rota, data, inicio, motorista, placa, saida, motivo, observacao, operacao
//
// Any other dated row is segmented heuristically: the text before the date is
// the route, up to two clock tokens after it are the start and end times, the
// last remaining token is the plate and the rest is the driver. Undated rows
// continue the observation of the previous record.
//
// Parsing is deterministic and never fails. Records without a route or a valid
// date are dropped.
package parser
