// internal/models/business.go
package models

// SourceType identifies where a piece of business data came from.
// Resolution order when sources conflict: operator > profile > place-search > search-results.
type SourceType string

const (
	SourceProfile       SourceType = "profile"
	SourcePlaceSearch   SourceType = "place-search"
	SourceSearchResults SourceType = "search-results"
	SourceOperator      SourceType = "operator"

	// SourceDerived marks values the normalizer filled in itself, such as
	// the fallback service radius. It never wins a conflict.
	SourceDerived SourceType = "derived"
)

// Priority returns the conflict-resolution rank of a source. Higher wins.
func (s SourceType) Priority() int {
	switch s {
	case SourceOperator:
		return 4
	case SourceProfile:
		return 3
	case SourcePlaceSearch:
		return 2
	case SourceSearchResults:
		return 1
	default:
		return 0
	}
}

// BusinessRecord is the canonical, source-agnostic view of one business.
// Every field is optional; absence drives question generation, never errors.
type BusinessRecord struct {
	Name     string `json:"name,omitempty"`
	Industry string `json:"industry,omitempty"`
	Tagline  string `json:"tagline,omitempty"`

	Phone     string   `json:"phone,omitempty"`
	Website   string   `json:"website,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Hours              map[string][]HourRange `json:"hours,omitempty"`
	Is24Hour           bool                   `json:"is24Hour,omitempty"`
	ServiceRadiusMiles float64                `json:"serviceRadiusMiles,omitempty"`
	ServiceAreaLabel   string                 `json:"serviceAreaLabel,omitempty"`

	Description     string   `json:"description,omitempty"`
	Services        []string `json:"services,omitempty"`
	Differentiators []string `json:"differentiators,omitempty"`
	StyleKeywords   []string `json:"styleKeywords,omitempty"`

	Photos       []Photo  `json:"photos,omitempty"`
	LogoURL      string   `json:"logoUrl,omitempty"`
	HeroImageURL string   `json:"heroImageUrl,omitempty"`
	BrandColors  map[string]string `json:"brandColors,omitempty"`

	Reviews     []Review `json:"reviews,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount int      `json:"reviewCount,omitempty"`

	Certifications  []string `json:"certifications,omitempty"`
	Awards          []string `json:"awards,omitempty"`
	YearsInBusiness *int     `json:"yearsInBusiness,omitempty"`

	Competitors []string `json:"competitors,omitempty"`
	SocialLinks []string `json:"socialLinks,omitempty"`
}

// GalleryCount returns the number of gallery photos (hero and logo excluded).
func (b *BusinessRecord) GalleryCount() int {
	n := 0
	for _, p := range b.Photos {
		if p.Category != PhotoCategoryHero && p.Category != PhotoCategoryLogo {
			n++
		}
	}
	return n
}

// ImageCount returns hero + gallery images combined, the count section
// requirements are checked against.
func (b *BusinessRecord) ImageCount() int {
	n := b.GalleryCount()
	if b.HeroImageURL != "" {
		n++
	}
	return n
}

// HourRange is one open/close pair within a single weekday, "HH:MM" 24h clock.
// Empty open means midnight; empty close means end of day.
type HourRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Photo category tags used for gallery/hero/logo accounting and labeling questions.
const (
	PhotoCategoryHero    = "hero"
	PhotoCategoryLogo    = "logo"
	PhotoCategoryGallery = "gallery"
	PhotoCategoryWork    = "work"
	PhotoCategoryTeam    = "team"
)

type Photo struct {
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

type Review struct {
	Author string  `json:"author,omitempty"`
	Text   string  `json:"text,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

// SourceContribution records what one raw source supplied and how much it is trusted.
type SourceContribution struct {
	Source     SourceType `json:"source"`
	Confidence float64    `json:"confidence"`
	Fields     []string   `json:"fields"`
}

// FieldMeta is per-field provenance attached to a normalized record.
// Inferred fields were derived (extracted years, computed radius) rather
// than read directly from a source, and downstream UI flags them for
// confirmation.
type FieldMeta struct {
	Source     SourceType `json:"source"`
	Confidence float64    `json:"confidence"`
	Inferred   bool       `json:"inferred,omitempty"`
}

// NormalizedBusiness is the Source Normalizer output: the merged record,
// one contribution per non-nil input, and per-field provenance.
type NormalizedBusiness struct {
	Record        BusinessRecord       `json:"record"`
	Contributions []SourceContribution `json:"contributions"`
	Fields        map[string]FieldMeta `json:"fields"`
}

// Meta returns the provenance entry for a field, or a zero entry when the
// field was never supplied.
func (n *NormalizedBusiness) Meta(field string) FieldMeta {
	if n.Fields == nil {
		return FieldMeta{}
	}
	return n.Fields[field]
}

// ConfirmedBy reports whether a field came from profile data or the operator.
func (n *NormalizedBusiness) ConfirmedBy(field string) bool {
	m := n.Meta(field)
	if m.Inferred {
		return false
	}
	return m.Source == SourceProfile || m.Source == SourceOperator
}
