// Package dialect maps a farmer's region and language to a localized
// conversational profile. Resolution falls through three levels: an
// exact region match, the language's default profile, and finally the
// Hindi default, so a profile always comes back.
package dialect

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agrimitra/advisory-gateway/pkg/models"
)

//go:embed profiles.yaml
var profilesYAML []byte

const fallbackLanguage = "hi"

type profileFile struct {
	Regions          []models.DialectProfile `yaml:"regions"`
	LanguageDefaults map[string]string       `yaml:"language_defaults"`
}

// Resolver serves dialect profiles from an immutable in-memory table.
type Resolver struct {
	byRegion   map[string]models.DialectProfile
	byLanguage map[string]models.DialectProfile
	hindiDeflt models.DialectProfile
}

// NewResolver parses the embedded profile table. It fails only if the
// embedded data is malformed, which is a build defect rather than a
// runtime condition.
func NewResolver() (*Resolver, error) {
	var file profileFile
	if err := yaml.Unmarshal(profilesYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing dialect profiles: %w", err)
	}

	r := &Resolver{
		byRegion:   make(map[string]models.DialectProfile, len(file.Regions)),
		byLanguage: make(map[string]models.DialectProfile, len(file.LanguageDefaults)),
	}
	for _, p := range file.Regions {
		r.byRegion[normalize(p.Region)] = p
	}
	for lang, region := range file.LanguageDefaults {
		p, ok := r.byRegion[normalize(region)]
		if !ok {
			return nil, fmt.Errorf("language default %q points at unknown region %q", lang, region)
		}
		r.byLanguage[normalize(lang)] = p
	}

	hindi, ok := r.byLanguage[fallbackLanguage]
	if !ok {
		return nil, fmt.Errorf("dialect profiles missing the %q default", fallbackLanguage)
	}
	r.hindiDeflt = hindi
	return r, nil
}

// Resolve returns the profile for a region, falling back to the
// language default and then Hindi. Missing or unknown inputs never
// produce an error; the caller always gets a usable profile.
func (r *Resolver) Resolve(region, language string) models.DialectProfile {
	if p, ok := r.byRegion[normalize(region)]; ok {
		return p
	}
	if p, ok := r.byLanguage[normalize(language)]; ok {
		return p
	}
	return r.hindiDeflt
}

// NormalizeLanguage collapses a free-form language code to one of the
// supported set, defaulting to Hindi when the code is missing or
// unrecognized.
func (r *Resolver) NormalizeLanguage(language string) string {
	lang := normalize(language)
	if _, ok := r.byLanguage[lang]; ok {
		return lang
	}
	return fallbackLanguage
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
