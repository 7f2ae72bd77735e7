package environment

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	apperrors "github.com/amaumene/coffeeshop/pkg/errors"
)

// Format is an output format for an environment file.
type Format string

const (
	FormatTypeScript Format = "ts"
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
)

// ParseFormat resolves a format name. "typescript" and "yml" are accepted as
// aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ts", "typescript":
		return FormatTypeScript, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", apperrors.ErrInvalidInput, name)
	}
}

// FileName returns the conventional file name for env in format f:
// environment.ts / environment.prod.ts for the front end, and
// environment.<env>.<ext> for data formats.
func (f Format) FileName(env Environment) string {
	if f == FormatTypeScript {
		if env == Production {
			return "environment.prod.ts"
		}
		return "environment.ts"
	}
	return "environment." + env.String() + "." + string(f)
}

var tsTemplate = template.Must(template.New("environment.ts").
	Funcs(template.FuncMap{"quote": quoteTS}).
	Parse(`export const environment = {
  production: {{ .Production }},
  apiServerUrl: {{ quote .APIServerURL }},
  auth0: {
    url: {{ quote .Auth0.URL }},
    audience: {{ quote .Auth0.Audience }},
    clientId: {{ quote .Auth0.ClientID }},
    callbackURL: {{ quote .Auth0.CallbackURL }},
  }
};
`))

// quoteTS renders s as a single-quoted TypeScript string literal. Control
// characters and the JavaScript line terminators are written as \x or \u
// escapes; everything else is kept as is.
func quoteTS(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Render writes cfg to w in the given format.
func Render(w io.Writer, cfg Config, format Format) error {
	doc := cfg.Document()
	switch format {
	case FormatTypeScript:
		return tsTemplate.Execute(w, doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unsupported format %q", apperrors.ErrInvalidInput, format)
	}
}
