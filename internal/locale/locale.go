// Package locale translates user-facing messages with go-i18n.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-assistant/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator renders message templates in one language.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer

	// Languages lists the language codes found in the embedded locales.
	Languages []string
}

// New loads the embedded message files and selects lang.
// Unknown languages fall back to English.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir(config.TKeyLocalesDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocaleFilePrefix) || !strings.HasSuffix(name, config.LocaleFileSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocaleFilePrefix), config.LocaleFileSuffix)
		if _, err := bundle.LoadMessageFileFS(localeFS, config.TKeyLocalesDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.Languages = append(t.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	// Regional variants such as fr-CA resolve through their base language.
	base, _, _ := strings.Cut(strings.ToLower(lang), "-")
	if !slices.Contains(t.Languages, base) {
		if lang != "" {
			slog.Warn(config.MsgLangFallback,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyLang, lang,
			)
		}
		lang = config.DefaultLanguage
	}
	t.localizer = i18n.NewLocalizer(bundle, lang)
	return t
}

// Msg translates key. data fills the template placeholders ({{.Name}}, ...).
// A missing key is returned unchanged.
func (t *Translator) Msg(key string, data map[string]any) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Weekday returns the translated name of wd.
func (t *Translator) Weekday(wd time.Weekday) string {
	key := config.TKeyWeekdayPrefix + strings.ToLower(wd.String())
	if msg := t.Msg(key, nil); msg != key {
		return msg
	}
	return wd.String()
}
