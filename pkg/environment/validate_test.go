package environment

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amaumene/coffeeshop/pkg/errors"
)

func TestVariantURLsParse(t *testing.T) {
	for _, cfg := range []Config{DevelopmentConfig(), ProductionConfig()} {
		api, err := url.Parse(cfg.APIServerURL())
		require.NoError(t, err)
		assert.True(t, api.IsAbs())

		callback, err := url.Parse(cfg.Auth0().CallbackURL())
		require.NoError(t, err)
		assert.True(t, callback.IsAbs())
	}
}

func TestValidate(t *testing.T) {
	good := DevelopmentConfig().Document()

	tests := []struct {
		name       string
		mutate     func(d *Document)
		wantFields []string
		wantIs     error
	}{
		{
			name:   "valid",
			mutate: func(d *Document) {},
		},
		{
			name:       "missing api server url",
			mutate:     func(d *Document) { d.APIServerURL = "" },
			wantFields: []string{FieldAPIServerURL},
			wantIs:     apperrors.ErrMissingField,
		},
		{
			name:       "relative api server url",
			mutate:     func(d *Document) { d.APIServerURL = "/api" },
			wantFields: []string{FieldAPIServerURL},
			wantIs:     apperrors.ErrInvalidURL,
		},
		{
			name:       "non http callback",
			mutate:     func(d *Document) { d.Auth0.CallbackURL = "ftp://127.0.0.1:8100" },
			wantFields: []string{FieldAuth0CallbackURL},
			wantIs:     apperrors.ErrInvalidURL,
		},
		{
			name:       "unparsable callback",
			mutate:     func(d *Document) { d.Auth0.CallbackURL = "http://[::1" },
			wantFields: []string{FieldAuth0CallbackURL},
			wantIs:     apperrors.ErrInvalidURL,
		},
		{
			name:       "domain prefix with scheme",
			mutate:     func(d *Document) { d.Auth0.URL = "https://dev-dh8lpj82.us.auth0.com" },
			wantFields: []string{FieldAuth0URL},
			wantIs:     apperrors.ErrInvalidInput,
		},
		{
			name:       "blank audience",
			mutate:     func(d *Document) { d.Auth0.Audience = "   " },
			wantFields: []string{FieldAuth0Audience},
			wantIs:     apperrors.ErrMissingField,
		},
		{
			name: "everything missing",
			mutate: func(d *Document) {
				*d = Document{}
			},
			wantFields: []string{
				FieldAPIServerURL,
				FieldAuth0URL,
				FieldAuth0Audience,
				FieldAuth0ClientID,
				FieldAuth0CallbackURL,
			},
			wantIs: apperrors.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := good
			tt.mutate(&doc)

			err := doc.Config().Validate()
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantFields, apperrors.Fields(err))
			assert.True(t, errors.Is(err, tt.wantIs))
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestAudit(t *testing.T) {
	assert.Empty(t, DevelopmentConfig().Audit())

	findings := ProductionConfig().Audit()
	require.Len(t, findings, 3)
	assert.Equal(t, FieldAPIServerURL, findings[0].Field)
	assert.Equal(t, FieldAuth0CallbackURL, findings[1].Field)
	assert.Equal(t, FieldAuth0CallbackURL, findings[2].Field)
	assert.Equal(t, "apiServerUrl: points at a loopback host in a production build", findings[0].String())

	deployed := New(true, "https://api.coffee.example", NewAuth0(
		"coffee.eu", "https://api.coffee.example/", "client", "https://app.coffee.example"))
	assert.Empty(t, deployed.Audit())

	insecure := New(true, "http://api.coffee.example", NewAuth0(
		"coffee.eu", "https://api.coffee.example/", "client", "https://localhost"))
	assert.Equal(t, []Finding{
		{Field: FieldAPIServerURL, Message: "uses plain http in a production build"},
		{Field: FieldAuth0CallbackURL, Message: "points at a loopback host in a production build"},
	}, insecure.Audit())
}
