// Package handlers serves the environment settings of a build over HTTP, for
// front ends that fetch their settings at startup instead of bundling them.
//
// Endpoints:
//   - GET /environment.json: the settings in the front-end shape
//   - GET /health: liveness and the served deployment target
//
// Responses are JSON, including errors.
package handlers
