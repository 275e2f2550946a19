// internal/models/sources.go
package models

// GenerationInput is the engine's single input boundary: zero or more raw
// source records plus an industry hint. Upstream collaborators resolve API
// failures into nil records before this point.
type GenerationInput struct {
	Industry        string               `json:"industry"`
	Profile         *ProfileRecord       `json:"profile,omitempty"`
	PlaceSearch     *PlaceSearchRecord   `json:"placeSearch,omitempty"`
	SearchResults   *SearchResultsRecord `json:"searchResults,omitempty"`
	OperatorAnswers *OperatorAnswers     `json:"operatorAnswers,omitempty"`
}

// ProfileRecord is the already-fetched business-listing API shape
// (managed business profile: hours, categories, service area, photos, reviews).
type ProfileRecord struct {
	Name                 string        `json:"name,omitempty"`
	PrimaryCategory      string        `json:"primaryCategory,omitempty"`
	AdditionalCategories []string      `json:"additionalCategories,omitempty"`
	Phone                string        `json:"phone,omitempty"`
	WebsiteURL           string        `json:"websiteUrl,omitempty"`
	Description          string        `json:"description,omitempty"`
	Tagline              string        `json:"tagline,omitempty"`
	Address              *AddressParts `json:"address,omitempty"`
	Latitude             *float64      `json:"latitude,omitempty"`
	Longitude            *float64      `json:"longitude,omitempty"`
	Hours                []HoursPeriod `json:"hours,omitempty"`
	ServiceArea          *ServiceArea  `json:"serviceArea,omitempty"`
	ServiceTypes         []string      `json:"serviceTypes,omitempty"`
	Photos               []Photo       `json:"photos,omitempty"`
	LogoURL              string        `json:"logoUrl,omitempty"`
	BrandColors          map[string]string `json:"brandColors,omitempty"`
	Reviews              []Review      `json:"reviews,omitempty"`
	Rating               *float64      `json:"rating,omitempty"`
	ReviewCount          int           `json:"reviewCount,omitempty"`
	Certifications       []string      `json:"certifications,omitempty"`
	Awards               []string      `json:"awards,omitempty"`
	YearsInBusiness      *int          `json:"yearsInBusiness,omitempty"`
}

// AddressParts is the structured address as supplied upstream. The
// normalizer flattens it to a single formatted string.
type AddressParts struct {
	StreetLines []string `json:"streetLines,omitempty"`
	Locality    string   `json:"locality,omitempty"`
	AdminArea   string   `json:"adminArea,omitempty"`
	PostalCode  string   `json:"postalCode,omitempty"`
}

// HoursPeriod is one raw open/close period for one weekday.
// Day is a lowercase weekday name ("monday".."sunday").
type HoursPeriod struct {
	Day   string `json:"day"`
	Open  string `json:"open,omitempty"`
	Close string `json:"close,omitempty"`
}

// ServiceArea carries whichever of the three radius signals the listing had.
type ServiceArea struct {
	RadiusValue *float64     `json:"radiusValue,omitempty"`
	RadiusUnit  string       `json:"radiusUnit,omitempty"` // "mi" or "km"
	Polygon     []Coordinate `json:"polygon,omitempty"`
	Places      []PlaceRef   `json:"places,omitempty"`
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceRef is a named place in a service-area place list.
type PlaceRef struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"` // locality, county, state
}

const (
	PlaceTypeLocality = "locality"
	PlaceTypeCounty   = "county"
	PlaceTypeState    = "state"
)

// PlaceSearchRecord is the general place-search/maps API shape.
type PlaceSearchRecord struct {
	Name             string        `json:"name,omitempty"`
	FormattedAddress string        `json:"formattedAddress,omitempty"`
	Phone            string        `json:"phone,omitempty"`
	Website          string        `json:"website,omitempty"`
	Latitude         *float64      `json:"latitude,omitempty"`
	Longitude        *float64      `json:"longitude,omitempty"`
	Rating           *float64      `json:"rating,omitempty"`
	ReviewCount      int           `json:"reviewCount,omitempty"`
	Types            []string      `json:"types,omitempty"`
	Hours            []HoursPeriod `json:"hours,omitempty"`
	Reviews          []Review      `json:"reviews,omitempty"`
	Photos           []Photo       `json:"photos,omitempty"`
}

// SearchResultsRecord is semi-structured web-search output mined for
// mentions, social links and competitor signals.
type SearchResultsRecord struct {
	Snippets    []string `json:"snippets,omitempty"`
	SocialLinks []string `json:"socialLinks,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
	Mentions    []string `json:"mentions,omitempty"`
}

// OperatorAnswers holds human-confirmed values from the clarification flow.
// Always the last-applied, highest-priority overlay.
type OperatorAnswers struct {
	BusinessName       *string           `json:"businessName,omitempty"`
	Phone              *string           `json:"phone,omitempty"`
	Tagline            *string           `json:"tagline,omitempty"`
	Description        *string           `json:"description,omitempty"`
	Services           []string          `json:"services,omitempty"`
	Differentiators    []string          `json:"differentiators,omitempty"`
	StyleKeywords      []string          `json:"styleKeywords,omitempty"`
	ServiceRadiusMiles *float64          `json:"serviceRadiusMiles,omitempty"`
	Is24Hour           *bool             `json:"is24Hour,omitempty"`
	YearsInBusiness    *int              `json:"yearsInBusiness,omitempty"`
	Certifications     []string          `json:"certifications,omitempty"`
	BrandColors        map[string]string `json:"brandColors,omitempty"`
	PhotoLabels        map[string]string `json:"photoLabels,omitempty"` // photo URL -> category
}
