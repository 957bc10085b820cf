// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. The sorting, faceting and filtering
// functions are exported on their own so they can be used without a
// service instance.
package services
