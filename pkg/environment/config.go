package environment

import (
	"encoding/json"
	"strings"
)

// Defaults for the local development stack: the Flask drinks API on :5000
// and the Ionic app on :8100.
const (
	defaultAPIServerURL      = "https://127.0.0.1:5000"
	defaultAuth0URL          = "dev-dh8lpj82.us"
	defaultAuth0Audience     = "http://localhost:5000/"
	defaultAuth0ClientID     = "4zkei0fPLWHwPmIxwNrazq0pZAACIne8"
	defaultAuth0CallbackURL  = "http://127.0.0.1:8100"
	auth0TenantSuffix        = ".auth0.com"
	maskedClientIDVisibleLen = 4
)

// Auth0 identifies the Auth0 tenant and the registered client application.
type Auth0 struct {
	url         string
	audience    string
	clientID    string
	callbackURL string
}

// NewAuth0 builds the identity-provider block. Every value is required.
func NewAuth0(url, audience, clientID, callbackURL string) Auth0 {
	return Auth0{
		url:         url,
		audience:    audience,
		clientID:    clientID,
		callbackURL: callbackURL,
	}
}

// URL is the tenant domain prefix, e.g. "dev-dh8lpj82.us".
func (a Auth0) URL() string { return a.url }

// Audience identifies the protected API tokens are issued for.
func (a Auth0) Audience() string { return a.audience }

func (a Auth0) ClientID() string { return a.clientID }

// CallbackURL is where Auth0 redirects after a successful login.
func (a Auth0) CallbackURL() string { return a.callbackURL }

// Domain returns the tenant host name, "<url>.auth0.com".
func (a Auth0) Domain() string {
	if a.url == "" {
		return ""
	}
	return a.url + auth0TenantSuffix
}

// MaskedClientID hides all but the last few characters of the client id so
// it can be logged.
func (a Auth0) MaskedClientID() string {
	n := len(a.clientID)
	if n <= maskedClientIDVisibleLen {
		return strings.Repeat("*", n)
	}
	return strings.Repeat("*", n-maskedClientIDVisibleLen) + a.clientID[n-maskedClientIDVisibleLen:]
}

// Config holds the environment settings of one deployment target.
type Config struct {
	production   bool
	apiServerURL string
	auth0        Auth0
}

// New builds a Config. Every value is required; New does not validate them,
// use Validate for that.
func New(production bool, apiServerURL string, auth0 Auth0) Config {
	return Config{
		production:   production,
		apiServerURL: apiServerURL,
		auth0:        auth0,
	}
}

// DevelopmentConfig returns the settings for local development.
func DevelopmentConfig() Config {
	return New(false, defaultAPIServerURL, defaultAuth0())
}

// ProductionConfig returns the settings for production builds. It differs
// from DevelopmentConfig only in the production flag; deployments supply
// their real endpoints through the config package.
func ProductionConfig() Config {
	return New(true, defaultAPIServerURL, defaultAuth0())
}

func defaultAuth0() Auth0 {
	return NewAuth0(defaultAuth0URL, defaultAuth0Audience, defaultAuth0ClientID, defaultAuth0CallbackURL)
}

func (c Config) Production() bool { return c.production }

// APIServerURL is the base URL of the backend API.
func (c Config) APIServerURL() string { return c.apiServerURL }

// Auth0 returns a copy of the identity-provider block.
func (c Config) Auth0() Auth0 { return c.auth0 }

// Environment reports the deployment target this Config belongs to.
func (c Config) Environment() Environment {
	if c.production {
		return Production
	}
	return Development
}

// Document is the persisted form of a Config, keyed the way the front end
// reads it.
type Document struct {
	Production   bool          `json:"production" yaml:"production"`
	APIServerURL string        `json:"apiServerUrl" yaml:"apiServerUrl"`
	Auth0        Auth0Document `json:"auth0" yaml:"auth0"`
}

type Auth0Document struct {
	URL         string `json:"url" yaml:"url"`
	Audience    string `json:"audience" yaml:"audience"`
	ClientID    string `json:"clientId" yaml:"clientId"`
	CallbackURL string `json:"callbackURL" yaml:"callbackURL"`
}

// Document returns a detached copy of c in its persisted form.
func (c Config) Document() Document {
	return Document{
		Production:   c.production,
		APIServerURL: c.apiServerURL,
		Auth0: Auth0Document{
			URL:         c.auth0.url,
			Audience:    c.auth0.audience,
			ClientID:    c.auth0.clientID,
			CallbackURL: c.auth0.callbackURL,
		},
	}
}

func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Document())
}

func (c Config) MarshalYAML() (interface{}, error) {
	return c.Document(), nil
}

// Config builds a new Config from the persisted form.
func (d Document) Config() Config {
	return New(d.Production, d.APIServerURL,
		NewAuth0(d.Auth0.URL, d.Auth0.Audience, d.Auth0.ClientID, d.Auth0.CallbackURL))
}
