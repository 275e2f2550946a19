// internal/engine/normalizer/normalizer.go
package normalizer

import (
	"strings"
	"time"

	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/models"
)

// Canonical field names used for provenance, quality scoring and question ids.
const (
	FieldName            = "name"
	FieldIndustry        = "industry"
	FieldTagline         = "tagline"
	FieldPhone           = "phone"
	FieldWebsite         = "website"
	FieldAddress         = "address"
	FieldCoordinates     = "coordinates"
	FieldHours           = "hours"
	FieldServiceRadius   = "service_radius"
	FieldDescription     = "description"
	FieldServices        = "services"
	FieldDifferentiators = "differentiators"
	FieldStyleKeywords   = "style_keywords"
	FieldPhotos          = "photos"
	FieldLogo            = "logo"
	FieldHeroImage       = "hero_image"
	FieldBrandColors     = "brand_colors"
	FieldReviews         = "reviews"
	FieldRating          = "rating"
	FieldCertifications  = "certifications"
	FieldAwards          = "awards"
	FieldYearsInBusiness = "years_in_business"
	FieldCompetitors     = "competitors"
	FieldSocialLinks     = "social_links"
)

// Base confidence assigned to a field read directly from each source.
const (
	confidenceOperator      = 1.0
	confidenceProfile       = 0.9
	confidencePlaceSearch   = 0.7
	confidenceSearchResults = 0.5
	confidenceInferred      = 0.6
)

// Normalizer maps the raw source records into one BusinessRecord with
// per-field provenance. It is pure aside from the injected clock, which only
// anchors elapsed-years extraction.
type Normalizer struct {
	log logger.Logger
	now func() time.Time
}

func New(log logger.Logger) *Normalizer {
	return &Normalizer{log: log, now: time.Now}
}

// NewWithClock builds a Normalizer on an injected clock so tests and
// replayed decisions stay deterministic.
func NewWithClock(log logger.Logger, now func() time.Time) *Normalizer {
	return &Normalizer{log: log, now: now}
}

// Normalize merges up to four raw inputs into one NormalizedBusiness.
// Resolution order when sources overlap: operator answers > profile >
// place-search > search-results. Applying the same operator answers twice
// yields the same record: every overlay sets values, never appends.
func (n *Normalizer) Normalize(input *models.GenerationInput) *models.NormalizedBusiness {
	out := &models.NormalizedBusiness{
		Fields: make(map[string]models.FieldMeta),
	}

	if input.Industry != "" {
		out.Record.Industry = strings.ToLower(strings.TrimSpace(input.Industry))
		n.setField(out, FieldIndustry, models.SourceOperator, confidenceOperator, false)
	}

	// Lowest priority first so higher-priority sources overwrite.
	if input.SearchResults != nil {
		n.applySearchResults(out, input.SearchResults)
	}
	if input.PlaceSearch != nil {
		n.applyPlaceSearch(out, input.PlaceSearch)
	}
	if input.Profile != nil {
		n.applyProfile(out, input.Profile)
	}

	n.deriveRadius(out, input.Profile)
	n.deriveYears(out)

	// Operator answers are the final, highest-priority overlay.
	if input.OperatorAnswers != nil {
		n.applyOperator(out, input.OperatorAnswers)
	}

	n.log.Debug("normalized business record", map[string]interface{}{
		"fields":        len(out.Fields),
		"contributions": len(out.Contributions),
	})

	return out
}

func (n *Normalizer) setField(out *models.NormalizedBusiness, field string, src models.SourceType, confidence float64, inferred bool) {
	out.Fields[field] = models.FieldMeta{
		Source:     src,
		Confidence: confidence,
		Inferred:   inferred,
	}
}

func (n *Normalizer) applySearchResults(out *models.NormalizedBusiness, sr *models.SearchResultsRecord) {
	contrib := models.SourceContribution{
		Source:     models.SourceSearchResults,
		Confidence: confidenceSearchResults,
	}

	if len(sr.Competitors) > 0 {
		out.Record.Competitors = sr.Competitors
		n.setField(out, FieldCompetitors, models.SourceSearchResults, confidenceSearchResults, false)
		contrib.Fields = append(contrib.Fields, FieldCompetitors)
	}
	if len(sr.SocialLinks) > 0 {
		out.Record.SocialLinks = sr.SocialLinks
		n.setField(out, FieldSocialLinks, models.SourceSearchResults, confidenceSearchResults, false)
		contrib.Fields = append(contrib.Fields, FieldSocialLinks)
	}
	if out.Record.Description == "" && len(sr.Snippets) > 0 {
		out.Record.Description = strings.Join(sr.Snippets, " ")
		n.setField(out, FieldDescription, models.SourceSearchResults, confidenceSearchResults, false)
		contrib.Fields = append(contrib.Fields, FieldDescription)
	}

	out.Contributions = append(out.Contributions, contrib)
}

func (n *Normalizer) applyPlaceSearch(out *models.NormalizedBusiness, ps *models.PlaceSearchRecord) {
	contrib := models.SourceContribution{
		Source:     models.SourcePlaceSearch,
		Confidence: confidencePlaceSearch,
	}
	record := func(field string) { contrib.Fields = append(contrib.Fields, field) }

	if ps.Name != "" {
		out.Record.Name = ps.Name
		n.setField(out, FieldName, models.SourcePlaceSearch, confidencePlaceSearch, false)
		record(FieldName)
	}
	if ps.Phone != "" {
		out.Record.Phone = ps.Phone
		n.setField(out, FieldPhone, models.SourcePlaceSearch, confidencePlaceSearch, false)
		record(FieldPhone)
	}
	if ps.Website != "" {
		out.Record.Website = ps.Website
		n.setField(out, FieldWebsite, models.SourcePlaceSearch, confidencePlaceSearch, false)
		record(FieldWebsite)
	}
	if ps.FormattedAddress != "" {
		out.Record.Address = ps.FormattedAddress
		n.setField(out, FieldAddress, models.SourcePlaceSearch, confidencePlaceSearch, false)
		record(FieldAddress)
	}
	if ps.Latitude != nil && ps.Longitude != nil {
		out.Record.Latitude = ps.Latitude
		out.Record.Longitude = ps.Longitude
		n.setField(out, FieldCoordinates, models.SourcePlaceSearch, confidencePlaceSearch, false)
		record(FieldCoordinates)
	}
	if ps.Rating != nil {
		out.Record.Rating = ps.Rating
		out.Record.ReviewCount = ps.ReviewCount
		n.setField(out, FieldRating, models.SourcePlaceSearch, confidencePlaceSearch, false)
		record(FieldRating)
	}
	if len(ps.Reviews) > 0 {
		out.Record.Reviews = ps.Reviews
		n.setField(out, FieldReviews, models.SourcePlaceSearch, confidencePlaceSearch, false)
		record(FieldReviews)
	}
	if len(ps.Photos) > 0 {
		out.Record.Photos = ps.Photos
		n.setField(out, FieldPhotos, models.SourcePlaceSearch, confidencePlaceSearch, false)
		record(FieldPhotos)
	}
	if len(ps.Hours) > 0 {
		schedule, always := BuildSchedule(ps.Hours)
		out.Record.Hours = schedule
		out.Record.Is24Hour = always
		n.setField(out, FieldHours, models.SourcePlaceSearch, confidencePlaceSearch, false)
		record(FieldHours)
	}

	out.Contributions = append(out.Contributions, contrib)
}

func (n *Normalizer) applyProfile(out *models.NormalizedBusiness, p *models.ProfileRecord) {
	contrib := models.SourceContribution{
		Source:     models.SourceProfile,
		Confidence: confidenceProfile,
	}
	record := func(field string) { contrib.Fields = append(contrib.Fields, field) }

	if p.Name != "" {
		out.Record.Name = p.Name
		n.setField(out, FieldName, models.SourceProfile, confidenceProfile, false)
		record(FieldName)
	}
	if p.Tagline != "" {
		out.Record.Tagline = p.Tagline
		n.setField(out, FieldTagline, models.SourceProfile, confidenceProfile, false)
		record(FieldTagline)
	}
	if p.Phone != "" {
		out.Record.Phone = p.Phone
		n.setField(out, FieldPhone, models.SourceProfile, confidenceProfile, false)
		record(FieldPhone)
	}
	if p.WebsiteURL != "" {
		out.Record.Website = p.WebsiteURL
		n.setField(out, FieldWebsite, models.SourceProfile, confidenceProfile, false)
		record(FieldWebsite)
	}
	if p.Description != "" {
		out.Record.Description = p.Description
		n.setField(out, FieldDescription, models.SourceProfile, confidenceProfile, false)
		record(FieldDescription)
	}
	if addr := FormatAddress(p.Address); addr != "" {
		out.Record.Address = addr
		n.setField(out, FieldAddress, models.SourceProfile, confidenceProfile, false)
		record(FieldAddress)
	}
	if p.Latitude != nil && p.Longitude != nil {
		out.Record.Latitude = p.Latitude
		out.Record.Longitude = p.Longitude
		n.setField(out, FieldCoordinates, models.SourceProfile, confidenceProfile, false)
		record(FieldCoordinates)
	}
	if len(p.Hours) > 0 {
		schedule, always := BuildSchedule(p.Hours)
		out.Record.Hours = schedule
		out.Record.Is24Hour = always
		n.setField(out, FieldHours, models.SourceProfile, confidenceProfile, false)
		record(FieldHours)
	}
	if len(p.Photos) > 0 {
		out.Record.Photos = p.Photos
		n.setField(out, FieldPhotos, models.SourceProfile, confidenceProfile, false)
		record(FieldPhotos)
	}
	if p.LogoURL != "" {
		out.Record.LogoURL = p.LogoURL
		n.setField(out, FieldLogo, models.SourceProfile, confidenceProfile, false)
		record(FieldLogo)
	}
	if hero := firstPhotoByCategory(out.Record.Photos, models.PhotoCategoryHero); hero != "" {
		out.Record.HeroImageURL = hero
		n.setField(out, FieldHeroImage, models.SourceProfile, confidenceProfile, false)
		record(FieldHeroImage)
	}
	if len(p.BrandColors) > 0 {
		out.Record.BrandColors = p.BrandColors
		n.setField(out, FieldBrandColors, models.SourceProfile, confidenceProfile, false)
		record(FieldBrandColors)
	}
	if len(p.Reviews) > 0 {
		out.Record.Reviews = p.Reviews
		n.setField(out, FieldReviews, models.SourceProfile, confidenceProfile, false)
		record(FieldReviews)
	}
	if p.Rating != nil {
		out.Record.Rating = p.Rating
		out.Record.ReviewCount = p.ReviewCount
		n.setField(out, FieldRating, models.SourceProfile, confidenceProfile, false)
		record(FieldRating)
	}
	if len(p.Certifications) > 0 {
		out.Record.Certifications = p.Certifications
		n.setField(out, FieldCertifications, models.SourceProfile, confidenceProfile, false)
		record(FieldCertifications)
	}
	if len(p.Awards) > 0 {
		out.Record.Awards = p.Awards
		n.setField(out, FieldAwards, models.SourceProfile, confidenceProfile, false)
		record(FieldAwards)
	}
	if p.YearsInBusiness != nil {
		out.Record.YearsInBusiness = p.YearsInBusiness
		n.setField(out, FieldYearsInBusiness, models.SourceProfile, confidenceProfile, false)
		record(FieldYearsInBusiness)
	}
	if len(p.ServiceTypes) > 0 {
		// Category/service-type data is a candidate service list, not a
		// confirmed one: tagged inferred so the question generator offers
		// it as pre-checked options instead of trusting it outright.
		out.Record.Services = p.ServiceTypes
		n.setField(out, FieldServices, models.SourceProfile, confidenceInferred, true)
		record(FieldServices)
	}
	if out.Record.Industry == "" && p.PrimaryCategory != "" {
		out.Record.Industry = strings.ToLower(p.PrimaryCategory)
		n.setField(out, FieldIndustry, models.SourceProfile, confidenceProfile, false)
		record(FieldIndustry)
	}

	out.Contributions = append(out.Contributions, contrib)
}

func (n *Normalizer) applyOperator(out *models.NormalizedBusiness, a *models.OperatorAnswers) {
	contrib := models.SourceContribution{
		Source:     models.SourceOperator,
		Confidence: confidenceOperator,
	}
	record := func(field string) { contrib.Fields = append(contrib.Fields, field) }

	if a.BusinessName != nil {
		out.Record.Name = *a.BusinessName
		n.setField(out, FieldName, models.SourceOperator, confidenceOperator, false)
		record(FieldName)
	}
	if a.Phone != nil {
		out.Record.Phone = *a.Phone
		n.setField(out, FieldPhone, models.SourceOperator, confidenceOperator, false)
		record(FieldPhone)
	}
	if a.Tagline != nil {
		out.Record.Tagline = *a.Tagline
		n.setField(out, FieldTagline, models.SourceOperator, confidenceOperator, false)
		record(FieldTagline)
	}
	if a.Description != nil {
		out.Record.Description = *a.Description
		n.setField(out, FieldDescription, models.SourceOperator, confidenceOperator, false)
		record(FieldDescription)
	}
	if len(a.Services) > 0 {
		out.Record.Services = a.Services
		n.setField(out, FieldServices, models.SourceOperator, confidenceOperator, false)
		record(FieldServices)
	}
	if len(a.Differentiators) > 0 {
		out.Record.Differentiators = a.Differentiators
		n.setField(out, FieldDifferentiators, models.SourceOperator, confidenceOperator, false)
		record(FieldDifferentiators)
	}
	if len(a.StyleKeywords) > 0 {
		out.Record.StyleKeywords = a.StyleKeywords
		n.setField(out, FieldStyleKeywords, models.SourceOperator, confidenceOperator, false)
		record(FieldStyleKeywords)
	}
	if a.ServiceRadiusMiles != nil {
		out.Record.ServiceRadiusMiles = *a.ServiceRadiusMiles
		n.setField(out, FieldServiceRadius, models.SourceOperator, confidenceOperator, false)
		record(FieldServiceRadius)
	}
	if a.Is24Hour != nil {
		out.Record.Is24Hour = *a.Is24Hour
		n.setField(out, FieldHours, models.SourceOperator, confidenceOperator, false)
		record(FieldHours)
	}
	if a.YearsInBusiness != nil {
		out.Record.YearsInBusiness = a.YearsInBusiness
		n.setField(out, FieldYearsInBusiness, models.SourceOperator, confidenceOperator, false)
		record(FieldYearsInBusiness)
	}
	if len(a.Certifications) > 0 {
		out.Record.Certifications = a.Certifications
		n.setField(out, FieldCertifications, models.SourceOperator, confidenceOperator, false)
		record(FieldCertifications)
	}
	if len(a.BrandColors) > 0 {
		out.Record.BrandColors = a.BrandColors
		n.setField(out, FieldBrandColors, models.SourceOperator, confidenceOperator, false)
		record(FieldBrandColors)
	}
	if len(a.PhotoLabels) > 0 {
		relabeled := make([]models.Photo, len(out.Record.Photos))
		copy(relabeled, out.Record.Photos)
		for i := range relabeled {
			if label, ok := a.PhotoLabels[relabeled[i].URL]; ok {
				relabeled[i].Category = label
			}
		}
		out.Record.Photos = relabeled
		if hero := firstPhotoByCategory(relabeled, models.PhotoCategoryHero); hero != "" {
			out.Record.HeroImageURL = hero
			n.setField(out, FieldHeroImage, models.SourceOperator, confidenceOperator, false)
			record(FieldHeroImage)
		}
		n.setField(out, FieldPhotos, models.SourceOperator, confidenceOperator, false)
		record(FieldPhotos)
	}

	out.Contributions = append(out.Contributions, contrib)
}

// deriveRadius runs the service-area cascade unless the operator already
// supplied an explicit radius (that overlay happens afterwards and wins).
func (n *Normalizer) deriveRadius(out *models.NormalizedBusiness, p *models.ProfileRecord) {
	var area *models.ServiceArea
	if p != nil {
		area = p.ServiceArea
	}

	result := DeriveRadius(area)
	out.Record.ServiceRadiusMiles = result.Miles
	out.Record.ServiceAreaLabel = result.Basis
	source := models.SourceProfile
	if result.Basis == RadiusBasisDefault {
		source = models.SourceDerived
	}
	n.setField(out, FieldServiceRadius, source, result.Confidence, result.Inferred)
}

// deriveYears extracts years-in-business from the description when no
// source supplied it directly.
func (n *Normalizer) deriveYears(out *models.NormalizedBusiness) {
	if out.Record.YearsInBusiness != nil || out.Record.Description == "" {
		return
	}
	years := ExtractYears(out.Record.Description, n.now().Year())
	if years == nil {
		return
	}
	out.Record.YearsInBusiness = years
	meta := out.Meta(FieldDescription)
	n.setField(out, FieldYearsInBusiness, meta.Source, confidenceInferred, true)
}

// FormatAddress flattens structured address parts into one formatted string:
// street line(s), locality, administrative area, postal code, empty parts
// skipped, joined by ", ".
func FormatAddress(addr *models.AddressParts) string {
	if addr == nil {
		return ""
	}
	parts := make([]string, 0, len(addr.StreetLines)+3)
	for _, line := range addr.StreetLines {
		if s := strings.TrimSpace(line); s != "" {
			parts = append(parts, s)
		}
	}
	for _, s := range []string{addr.Locality, addr.AdminArea, addr.PostalCode} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func firstPhotoByCategory(photos []models.Photo, category string) string {
	for _, p := range photos {
		if p.Category == category {
			return p.URL
		}
	}
	return ""
}
