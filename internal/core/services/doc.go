// Package services implements the driving port interfaces.
// Services contain the core logic (ingestion, ranking, snippet extraction
// and the live search session) and orchestrate calls to driven ports.
//
// Services are pure Go with no CGO or external dependencies.
package services
