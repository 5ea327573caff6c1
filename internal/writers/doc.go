// Package writers turns a run summary into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, JSON, terminal table).
//   - summary stays domain-only; pipeline stays orchestration-only.
//   - JSON goes through pkg/api (v1) for a stable wire format.
package writers
