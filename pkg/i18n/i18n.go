// Package i18n resolves display strings and dates for the supported UI locales.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
)

// Locale is a supported UI language code.
type Locale string

const (
	Japanese Locale = "ja"
	English  Locale = "en"
	Thai     Locale = "th"
	Chinese  Locale = "zh"
)

// DefaultLocale is used for the initial locale and as the lookup fallback.
const DefaultLocale = Japanese

// buddhistEraOffset converts Gregorian years for the Thai calendar.
const buddhistEraOffset = 543

var supported = []Locale{Japanese, English, Thai, Chinese}

// ErrUnsupportedLocale is returned for codes outside the supported set.
var ErrUnsupportedLocale = errors.New("unsupported locale")

//go:embed locales/*.json
var localeFS embed.FS

// Provider translates keys for the active locale.
type Provider struct {
	tables   map[Locale]map[string]string
	location *time.Location

	mu      sync.RWMutex
	current Locale
}

// Option customizes a Provider.
type Option func(*Provider)

// WithLocation sets the time zone used by FormatDate.
func WithLocation(loc *time.Location) Option {
	return func(p *Provider) {
		if loc != nil {
			p.location = loc
		}
	}
}

// New loads the embedded tables and activates initial. An empty initial selects
// DefaultLocale.
func New(initial string, opts ...Option) (*Provider, error) {
	tables, err := loadTables()
	if err != nil {
		return nil, err
	}
	p := &Provider{
		tables:   tables,
		location: time.Local,
		current:  DefaultLocale,
	}
	for _, opt := range opts {
		opt(p)
	}
	if initial != "" {
		if err := p.SetLocale(initial); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ParseLocale maps a BCP 47 code such as "en-US" or "zh-Hans" onto a supported locale.
func ParseLocale(code string) (Locale, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, code)
	}
	base, confidence := tag.Base()
	if confidence != language.Exact {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, code)
	}
	for _, loc := range supported {
		if base.String() == string(loc) {
			return loc, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, code)
}

// Locales lists the supported locales in menu order.
func (p *Provider) Locales() []Locale {
	return append([]Locale(nil), supported...)
}

// CurrentLocale returns the active locale.
func (p *Provider) CurrentLocale() Locale {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// SetLocale switches the active locale for subsequent lookups and date formatting.
func (p *Provider) SetLocale(code string) error {
	loc, err := ParseLocale(code)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.current = loc
	p.mu.Unlock()
	return nil
}

// T returns the message for key in the active locale, falling back to the default
// locale and finally to the key itself. {name} placeholders are filled from params.
func (p *Provider) T(key string, params map[string]string) string {
	return interpolate(p.lookup(p.CurrentLocale(), key), params)
}

// Messages returns the resolved bundle for the active locale, including fallbacks.
func (p *Provider) Messages() map[string]string {
	current := p.CurrentLocale()
	out := make(map[string]string, len(p.tables[DefaultLocale]))
	for key, msg := range p.tables[DefaultLocale] {
		out[key] = msg
	}
	for key, msg := range p.tables[current] {
		out[key] = msg
	}
	return out
}

// LanguageName returns the localized display name of loc.
func (p *Provider) LanguageName(loc Locale) string {
	switch loc {
	case Japanese:
		return p.T("language.japanese", nil)
	case English:
		return p.T("language.english", nil)
	case Thai:
		return p.T("language.thai", nil)
	case Chinese:
		return p.T("language.chinese", nil)
	default:
		return p.T("language.japanese", nil)
	}
}

// FormatDate renders the calendar date of t the way the active locale writes it.
func (p *Provider) FormatDate(t time.Time) string {
	t = t.In(p.location)
	y, m, d := t.Date()
	switch p.CurrentLocale() {
	case English:
		return fmt.Sprintf("%d/%d/%d", int(m), d, y)
	case Thai:
		return fmt.Sprintf("%d/%d/%d", d, int(m), y+buddhistEraOffset)
	default:
		return fmt.Sprintf("%d/%d/%d", y, int(m), d)
	}
}

func (p *Provider) lookup(loc Locale, key string) string {
	if msg, ok := p.tables[loc][key]; ok {
		return msg
	}
	if msg, ok := p.tables[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

func interpolate(msg string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

func loadTables() (map[Locale]map[string]string, error) {
	tables := make(map[Locale]map[string]string, len(supported))
	for _, loc := range supported {
		raw, err := localeFS.ReadFile(path.Join("locales", string(loc)+".json"))
		if err != nil {
			return nil, fmt.Errorf("read %s messages: %w", loc, err)
		}
		var table map[string]string
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse %s messages: %w", loc, err)
		}
		tables[loc] = table
	}
	return tables, nil
}

// Count formats an integer parameter.
func Count(n int) map[string]string {
	return map[string]string{"count": strconv.Itoa(n)}
}
