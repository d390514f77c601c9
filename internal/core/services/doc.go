// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. The only external dependency is
// golang.org/x/sync for bounded parallel loading.
package services
