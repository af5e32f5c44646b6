// Package model defines the research entities shown on the discovery dashboard.
//
// The types map one-to-one onto the JSON returned by the remote research API:
//
//   - [DrugCandidate]: from GET /molecular-design/candidates
//   - [ClinicalTrial]: from GET /clinical-trials/monitor
//
// [ViewState] is the dashboard's local view of both collections. It is owned
// by the internal store and copied out via [ViewState.Clone] for readers.
package model
