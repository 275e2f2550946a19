// internal/workers/sitegen/select-site-template/validation.go
package selectsitetemplate

import "sitegen-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"industry"},
		Properties: map[string]validation.Property{
			"requestId": {
				Type:        "string",
				Description: "Correlation id carried through the generation process",
				MaxLength:   intPtr(64),
			},
			"industry": {
				Type:        "string",
				Description: "Industry hint used for template gating and question seeding",
				MinLength:   intPtr(2),
				MaxLength:   intPtr(100),
			},
			"profile": {
				Type:        "object",
				Description: "Business-listing profile record, already fetched upstream",
			},
			"placeSearch": {
				Type:        "object",
				Description: "Place-search record, already fetched upstream",
			},
			"searchResults": {
				Type:        "object",
				Description: "Mined web-search record",
			},
			"operatorAnswers": {
				Type:        "object",
				Description: "Previously collected operator answers, replayed on re-runs",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
