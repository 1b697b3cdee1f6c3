package location

import (
	"strings"

	"github.com/sentimap/sentimap/internal/models"
)

// Resolved is a standardized (province, region) pair. Either field may be the
// "unknown" sentinel, never an arbitrary string.
type Resolved struct {
	Province string
	Region   string
}

// Unknown is the resolution for text with no recognizable location.
func Unknown() Resolved {
	return Resolved{Province: models.UnknownLocation, Region: models.UnknownLocation}
}

// IsKnown reports whether the province resolved to a taxonomy member.
func (r Resolved) IsKnown() bool {
	return r.Province != models.UnknownLocation
}

// Resolver normalizes free-text and profile location strings against the
// fixed province/region taxonomy. All lookup tables are immutable after
// construction, so a single Resolver is safe for concurrent use.
type Resolver struct{}

// NewResolver returns a Resolver over the built-in taxonomy.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ExtractCandidates returns every known alias occurring in text, in the
// order the alias table yields exact full-name matches first. Single-character
// aliases match aggressively; callers use the first candidate.
func (r *Resolver) ExtractCandidates(text string) []string {
	if text == "" {
		return nil
	}
	var candidates []string
	// Longest aliases first so "北京" wins over the bare "京" when both occur.
	for _, alias := range orderedAliases {
		if strings.Contains(text, alias) {
			candidates = append(candidates, alias)
		}
	}
	return candidates
}

// Standardize maps an alias or free-form location string to a province.
// Match order: exact alias, alias containment, then the city table.
// The second return is false when nothing matched.
func (r *Resolver) Standardize(location string) (string, bool) {
	if location == "" {
		return "", false
	}

	if province, ok := provinceAliases[location]; ok {
		return province, true
	}

	for _, alias := range orderedAliases {
		if strings.Contains(location, alias) {
			return provinceAliases[alias], true
		}
	}

	for _, city := range orderedCities {
		if strings.Contains(location, city) {
			return cityProvinces[city], true
		}
	}

	return "", false
}

// RegionOf returns the macro-region of a province. 香港/澳门/台湾 carry no
// region and report false.
func (r *Resolver) RegionOf(province string) (string, bool) {
	standardized, ok := r.Standardize(province)
	if !ok {
		return "", false
	}
	region, ok := provinceRegions[standardized]
	return region, ok
}

// ResolveText resolves the first location alias found in free text.
func (r *Resolver) ResolveText(text string) Resolved {
	candidates := r.ExtractCandidates(text)
	if len(candidates) == 0 {
		return Unknown()
	}

	province, ok := r.Standardize(candidates[0])
	if !ok {
		return Unknown()
	}

	resolved := Resolved{Province: province, Region: models.UnknownLocation}
	if region, ok := r.RegionOf(province); ok {
		resolved.Region = region
	}
	return resolved
}

// ResolveProfile standardizes a profile/raw location field. Weibo-style
// "province city" strings resolve on the first field.
func (r *Resolver) ResolveProfile(location string) Resolved {
	if location == "" || location == models.UnknownLocation {
		return Unknown()
	}

	if i := strings.IndexByte(location, ' '); i > 0 {
		location = location[:i]
	}

	province, ok := r.Standardize(location)
	if !ok {
		return Unknown()
	}

	resolved := Resolved{Province: province, Region: models.UnknownLocation}
	if region, ok := r.RegionOf(province); ok {
		resolved.Region = region
	}
	return resolved
}

// Merge combines a text-derived and a profile-derived resolution. The profile
// location wins; the text location is the fallback.
func (r *Resolver) Merge(textLocation, profileLocation Resolved) Resolved {
	if profileLocation.IsKnown() {
		return profileLocation
	}
	if textLocation.IsKnown() {
		return textLocation
	}
	return Unknown()
}
