// internal/models/requirements.go
package models

import "fmt"

// Missing evaluates the requirement grammar against a business and returns a
// human-readable string per unmet requirement. An empty result means the
// requirements are satisfied. Used both for template-level requirements and
// per-variant section gating.
func (r ContentRequirements) Missing(b *BusinessRecord) []string {
	var missing []string

	if r.MinColors > 0 && len(b.BrandColors) < r.MinColors {
		missing = append(missing, fmt.Sprintf("At least %d brand colors required", r.MinColors))
	}
	for _, slot := range r.ColorSlots {
		if b.BrandColors[slot] == "" {
			missing = append(missing, fmt.Sprintf("Brand color %q required", slot))
		}
	}

	for _, f := range r.TextFields {
		value := b.textField(f.Field)
		switch {
		case value == "":
			missing = append(missing, fmt.Sprintf("Text field %q required", f.Field))
		case len(value) < f.MinLength:
			missing = append(missing, fmt.Sprintf("Text field %q must be at least %d characters", f.Field, f.MinLength))
		}
	}

	if r.MinServices > 0 && len(b.Services) < r.MinServices {
		missing = append(missing, fmt.Sprintf("At least %d services required", r.MinServices))
	}

	if r.RequireLogo && b.LogoURL == "" {
		missing = append(missing, "Logo required")
	}
	if r.RequireHero && b.HeroImageURL == "" {
		missing = append(missing, "Hero image required")
	}
	if r.MinGalleryImages > 0 && b.GalleryCount() < r.MinGalleryImages {
		missing = append(missing, fmt.Sprintf("At least %d gallery images required", r.MinGalleryImages))
	}
	if r.MinImages > 0 && b.ImageCount() < r.MinImages {
		missing = append(missing, fmt.Sprintf("At least %d images required", r.MinImages))
	}

	if r.MinTestimonials > 0 && len(b.Reviews) < r.MinTestimonials {
		missing = append(missing, fmt.Sprintf("At least %d testimonials required", r.MinTestimonials))
	}

	return missing
}

// Satisfied reports whether every requirement is met.
func (r ContentRequirements) Satisfied(b *BusinessRecord) bool {
	return len(r.Missing(b)) == 0
}

// textField resolves the text-field names the requirement grammar may refer to.
func (b *BusinessRecord) textField(name string) string {
	switch name {
	case "name":
		return b.Name
	case "tagline":
		return b.Tagline
	case "description":
		return b.Description
	default:
		return ""
	}
}
