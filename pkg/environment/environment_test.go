package environment

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amaumene/coffeeshop/pkg/errors"
)

func TestNewReadsBackValues(t *testing.T) {
	cfg := New(false, "https://127.0.0.1:5000", NewAuth0(
		"dev-dh8lpj82.us",
		"http://localhost:5000/",
		"4zkei0fPLWHwPmIxwNrazq0pZAACIne8",
		"http://127.0.0.1:8100",
	))

	assert.False(t, cfg.Production())
	assert.Equal(t, "https://127.0.0.1:5000", cfg.APIServerURL())
	assert.Equal(t, "dev-dh8lpj82.us", cfg.Auth0().URL())
	assert.Equal(t, "http://localhost:5000/", cfg.Auth0().Audience())
	assert.Equal(t, "4zkei0fPLWHwPmIxwNrazq0pZAACIne8", cfg.Auth0().ClientID())
	assert.Equal(t, "http://127.0.0.1:8100", cfg.Auth0().CallbackURL())
	assert.Equal(t, Development, cfg.Environment())
}

func TestDevelopmentConfigMatchesLocalStack(t *testing.T) {
	cfg := DevelopmentConfig()

	assert.Equal(t, New(false, "https://127.0.0.1:5000", NewAuth0(
		"dev-dh8lpj82.us",
		"http://localhost:5000/",
		"4zkei0fPLWHwPmIxwNrazq0pZAACIne8",
		"http://127.0.0.1:8100",
	)), cfg)
	assert.NotEmpty(t, cfg.APIServerURL())
	assert.NotEmpty(t, cfg.Auth0().URL())
	assert.NotEmpty(t, cfg.Auth0().Audience())
	assert.NotEmpty(t, cfg.Auth0().ClientID())
	assert.NotEmpty(t, cfg.Auth0().CallbackURL())
	require.NoError(t, cfg.Validate())
}

func TestVariantsDifferOnlyInProductionFlag(t *testing.T) {
	dev := DevelopmentConfig()
	prod := ProductionConfig()

	assert.False(t, dev.Production())
	assert.True(t, prod.Production())
	assert.Equal(t, Production, prod.Environment())

	devDoc, prodDoc := dev.Document(), prod.Document()
	prodDoc.Production = false
	assert.Equal(t, devDoc, prodDoc)
}

func TestForEnvironment(t *testing.T) {
	assert.Equal(t, DevelopmentConfig(), ForEnvironment(Development))
	assert.Equal(t, ProductionConfig(), ForEnvironment(Production))
	assert.Equal(t, ForEnvironment(BuildEnvironment()), Selected())
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Environment
		wantErr bool
	}{
		{name: "development", input: "development", want: Development},
		{name: "short dev", input: "dev", want: Development},
		{name: "production mixed case", input: " Production ", want: Production},
		{name: "short prod", input: "prod", want: Production},
		{name: "staging", input: "staging", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEnvironment(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrUnknownEnvironment))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	assert.Equal(t, "development", Development.String())
	assert.Equal(t, "production", Production.String())
	assert.Equal(t, "Environment(7)", Environment(7).String())
}

func TestDocumentIsDetached(t *testing.T) {
	cfg := DevelopmentConfig()
	doc := cfg.Document()
	doc.APIServerURL = "https://api.example.com"
	doc.Auth0.ClientID = "changed"

	assert.Equal(t, "https://127.0.0.1:5000", cfg.APIServerURL())
	assert.Equal(t, "4zkei0fPLWHwPmIxwNrazq0pZAACIne8", cfg.Auth0().ClientID())
}

func TestAuth0Helpers(t *testing.T) {
	a := DevelopmentConfig().Auth0()
	assert.Equal(t, "dev-dh8lpj82.us.auth0.com", a.Domain())
	assert.Equal(t, strings.Repeat("*", 28)+"Ine8", a.MaskedClientID())

	assert.Equal(t, "", NewAuth0("", "", "", "").Domain())
	assert.Equal(t, "***", NewAuth0("", "", "abc", "").MaskedClientID())
}

func TestMarshalJSONUsesFrontEndKeys(t *testing.T) {
	b, err := json.Marshal(DevelopmentConfig())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"production": false,
		"apiServerUrl": "https://127.0.0.1:5000",
		"auth0": {
			"url": "dev-dh8lpj82.us",
			"audience": "http://localhost:5000/",
			"clientId": "4zkei0fPLWHwPmIxwNrazq0pZAACIne8",
			"callbackURL": "http://127.0.0.1:8100"
		}
	}`, string(b))
}

func TestDocumentConfig(t *testing.T) {
	cfg := ProductionConfig()
	assert.Equal(t, cfg, cfg.Document().Config())
}

func TestConcurrentReads(t *testing.T) {
	cfg := DevelopmentConfig()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "https://127.0.0.1:5000", cfg.APIServerURL())
			assert.Equal(t, "http://127.0.0.1:8100", cfg.Auth0().CallbackURL())
			assert.NoError(t, cfg.Validate())
		}()
	}
	wg.Wait()
}
