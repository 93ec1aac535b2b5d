package barcode

import (
	"path"
	"strings"

	"github.com/serroba/linkshorter/internal/shortener"
)

// TokenPlaceholder marks where the token goes in a URLTemplate.
const TokenPlaceholder = "{token}"

// URLTemplate renders the text encoded in a barcode, e.g. "https://sho.rt/{token}".
type URLTemplate struct {
	prefix, suffix string
}

// ParseURLTemplate accepts a template holding TokenPlaceholder exactly once.
func ParseURLTemplate(raw string) (URLTemplate, error) {
	if strings.Count(raw, TokenPlaceholder) != 1 {
		return URLTemplate{}, shortener.NewError(shortener.KindInvalidArgument, raw, nil,
			"url template must contain "+TokenPlaceholder+" exactly once")
	}

	prefix, suffix, _ := strings.Cut(raw, TokenPlaceholder)

	return URLTemplate{prefix: prefix, suffix: suffix}, nil
}

// MustParseURLTemplate is like ParseURLTemplate but panics on error.
func MustParseURLTemplate(raw string) URLTemplate {
	tmpl, err := ParseURLTemplate(raw)
	if err != nil {
		panic(err)
	}

	return tmpl
}

// Format substitutes token into the template.
func (t URLTemplate) Format(token shortener.Token) string {
	return t.prefix + string(token) + t.suffix
}

func (t URLTemplate) String() string {
	return t.prefix + TokenPlaceholder + t.suffix
}

// BlobPath is the blob location of the barcode for token.
func BlobPath(basePath string, token shortener.Token) string {
	return path.Join(basePath, string(token))
}
