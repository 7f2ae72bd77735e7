// Package config resolves the environment settings a build should ship.
//
// It starts from one of the predefined variants in package environment and
// lets a deployment replace the tenant-specific values without editing
// source:
//   - a settings file (.yaml, .yml or .json) in the front-end shape
//   - .env files
//   - process environment variables (API_SERVER_URL, AUTH0_URL,
//     AUTH0_AUDIENCE, AUTH0_CLIENT_ID, AUTH0_CALLBACK_URL)
//
// The resolved settings are validated before they are handed out, so a
// misconfigured build fails at build time rather than in the browser.
package config
