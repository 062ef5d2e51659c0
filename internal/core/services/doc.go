// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services hold no provider SDKs; anything that talks to the
// network lives behind a driven port.
package services
