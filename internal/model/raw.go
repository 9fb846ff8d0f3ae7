package model

import "encoding/json"

// RawSearchResponse is the untrusted payload returned by the exposure
// backend's /search endpoint. Webpages and SocialMedia are kept as raw JSON
// so that a malformed collection cannot fail decoding of the whole response;
// the normalizer decodes them leniently, entry by entry.
type RawSearchResponse struct {
	Query              string          `json:"query"`
	TotalResults       int             `json:"totalResults"`
	TotalSocialResults int             `json:"totalSocialResults"`
	Webpages           json.RawMessage `json:"webpages"`
	SocialMedia        json.RawMessage `json:"socialMedia"`
}

// RawWebpageHit is one discovered webpage. Any field may be empty.
type RawWebpageHit struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Domain         string  `json:"domain"`
	Description    string  `json:"description"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// RawSocialHit is one discovered social-media profile. The backend's
// per-platform shape is not contractually fixed, so every field is optional
// and consumers apply explicit fallback chains.
type RawSocialHit struct {
	Title       string `json:"title,omitempty"`
	Name        string `json:"name,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
}
