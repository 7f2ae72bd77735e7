// Package environment defines the settings a coffee shop front end needs at
// build time: where the drinks API lives, whether the build is a production
// build, and how to reach the Auth0 tenant.
//
// A Config is an immutable value. It is created once, either from one of the
// predefined variants (Development, Production) or through the config
// package, and read as often as needed. There is no mutation API, so a
// Config can be shared between goroutines without locking.
//
// The variant compiled into a binary is chosen with the "production" build
// tag:
//
//	go build -tags production ./cmd/envgen
package environment
