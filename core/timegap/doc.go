// Package timegap converts between HH:MM:SS durations and seconds and
// classifies the gap between a scheduled and an actual time against a
// tolerance.
//
// All functions are total: malformed input is read as zero, never as an error.
//
// # Usage
//
//	gap := timegap.Compute("08:00:00", "08:10:00", "00:05:00", timegap.Options{})
//	fmt.Println(gap.Text, gap.Status) // 00:10:00 Atrasado
package timegap
