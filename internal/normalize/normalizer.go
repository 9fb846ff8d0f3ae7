// Package normalize converts the backend's heterogeneous search response
// into a flat, uniformly-shaped result set. It is a pure, single-pass,
// synchronous transformation: malformed entries are skipped with a logged
// warning, never raised as an error.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"footprint/internal/model"
)

// Relevance-score thresholds for webpage risk classification.
const (
	criticalThreshold = 0.8
	highThreshold     = 0.6
	mediumThreshold   = 0.3
)

const (
	// minConfidence is the floor for webpage hits so even low-relevance
	// results carry a nonzero confidence.
	minConfidence = 0.3

	// socialConfidence is fixed for platform listings: the platform is
	// already known, so these are higher-confidence than generic web hits.
	socialConfidence = 0.8

	// catchAllTag is appended to every result's data types.
	catchAllTag = "Personal Information"
)

// platformRisk is the fixed risk table for social platform listings.
// Platforms not listed default to medium.
var platformRisk = map[string]model.RiskLevel{
	"linkedin":  model.RiskMedium,
	"facebook":  model.RiskHigh,
	"instagram": model.RiskHigh,
	"twitter":   model.RiskMedium,
}

// socialDomainRule tags webpage hits that land on a known social network.
type socialDomainRule struct {
	domains []string
	tags    []string
}

// socialDomainRules is checked before the keyword heuristics: a hit on a
// social domain is always tagged as such regardless of its description.
var socialDomainRules = []socialDomainRule{
	{domains: []string{"linkedin.com"}, tags: []string{"LinkedIn Profile", "Professional Profile"}},
	{domains: []string{"facebook.com"}, tags: []string{"Facebook Profile", "Social Media"}},
	{domains: []string{"twitter.com", "x.com"}, tags: []string{"Twitter Profile", "Social Media"}},
	{domains: []string{"instagram.com"}, tags: []string{"Instagram Profile", "Social Media"}},
	{domains: []string{"tiktok.com"}, tags: []string{"TikTok Profile", "Social Media"}},
	{domains: []string{"youtube.com"}, tags: []string{"YouTube Channel", "Video Content"}},
	{domains: []string{"snapchat.com"}, tags: []string{"Snapchat Profile", "Social Media"}},
	{domains: []string{"pinterest.com"}, tags: []string{"Pinterest Profile", "Social Media"}},
}

// categoryRule classifies a non-social webpage hit by domain and description
// keywords. Rules are evaluated in order; the first match wins.
type categoryRule struct {
	domainKeywords []string
	descKeywords   []string
	tags           []string
}

var categoryRules = []categoryRule{
	{
		domainKeywords: []string{".edu", "academia", "researchgate", "scholar"},
		descKeywords:   []string{"university", "research", "academic", "thesis"},
		tags:           []string{"Academic Record", "Educational Background"},
	},
	{
		domainKeywords: []string{"whitepages", "spokeo", "yellowpages", "411.com", "beenverified"},
		descKeywords:   []string{"directory", "listing", "phone number", "address"},
		tags:           []string{"Directory Listing", "Contact Information"},
	},
	{
		domainKeywords: []string{"yelp", "tripadvisor", "glassdoor", "trustpilot"},
		descKeywords:   []string{"review", "rating"},
		tags:           []string{"Review Activity", "Public Opinions"},
	},
	{
		domainKeywords: []string{"news", "herald", "tribune", "gazette"},
		descKeywords:   []string{"news", "article", "press", "reported"},
		tags:           []string{"News Mention", "Public Record"},
	},
}

// defaultCategoryTags apply when no rule matches.
var defaultCategoryTags = []string{"Public Profile", "Web Presence"}

// Normalizer reshapes raw search responses into normalized result sets.
type Normalizer struct {
	log zerolog.Logger
	now func() time.Time
}

// New creates a Normalizer that reports skipped entries and count mismatches
// through the given logger.
func New(log zerolog.Logger) *Normalizer {
	return &Normalizer{
		log: log,
		now: time.Now,
	}
}

// Normalize flattens a raw search response into a result set. It never
// fails: missing or malformed collections and entries are skipped with a
// warning, and a count mismatch against the backend-reported totals is
// logged but not fatal.
func (n *Normalizer) Normalize(raw *model.RawSearchResponse) *model.ResultSet {
	set := &model.ResultSet{
		Query:     raw.Query,
		Timestamp: n.now().UTC(),
		Results:   []model.NormalizedResult{},
	}
	ordinal := 0

	// Webpage pass.
	for i, entry := range n.decodeList(raw.Webpages, "webpages") {
		var hit model.RawWebpageHit
		if !n.decodeEntry(entry, &hit, "webpages", i) {
			continue
		}
		if hit.Title == "" && hit.URL == "" {
			n.log.Warn().Str("field", "webpages").Int("index", i).
				Msg("skipping entry without title or url")
			continue
		}
		set.Results = append(set.Results, n.ClassifyWebpage(hit, ordinal))
		ordinal++
	}

	// Social pass. Platforms are visited in sorted order so that output
	// ordering and ids are deterministic for a given response.
	social := n.decodeSocial(raw.SocialMedia)
	platforms := make([]string, 0, len(social))
	for platform := range social {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	for _, platform := range platforms {
		for i, entry := range n.decodeList(social[platform], "socialMedia."+platform) {
			var hit model.RawSocialHit
			if !n.decodeEntry(entry, &hit, "socialMedia."+platform, i) {
				continue
			}
			set.Results = append(set.Results, n.ClassifySocial(platform, hit, ordinal))
			ordinal++
		}
	}

	// Validate against the backend-reported totals. A delta signals
	// upstream data-quality drift; rendering proceeds regardless.
	expected := raw.TotalResults + raw.TotalSocialResults
	if actual := len(set.Results); actual != expected {
		n.log.Warn().
			Str("query", raw.Query).
			Int("expected", expected).
			Int("actual", actual).
			Msg("normalized count differs from backend-reported totals")
	}

	return set
}

// ClassifyWebpage builds a normalized result for one webpage hit. The risk
// level follows fixed relevance thresholds, and hits on known social domains
// take the social-webpage id prefix and platform tags regardless of the
// description content.
func (n *Normalizer) ClassifyWebpage(hit model.RawWebpageHit, ordinal int) model.NormalizedResult {
	tags := make([]string, 0, 4)
	prefix := "webpage"
	if rule := matchSocialDomain(hit.Domain, hit.URL); rule != nil {
		prefix = "social-webpage"
		tags = append(tags, rule.tags...)
	} else {
		tags = append(tags, matchCategory(hit.Domain, hit.Description)...)
	}
	tags = append(tags, catchAllTag)

	displayName := hit.Title
	if displayName == "" {
		displayName = hit.Domain
	}

	return model.NormalizedResult{
		ID:          fmt.Sprintf("%s-%d", prefix, ordinal),
		DisplayName: displayName,
		SourceURL:   hit.URL,
		RiskLevel:   riskFromRelevance(hit.RelevanceScore),
		DataTypes:   dedupe(tags),
		Confidence:  math.Max(minConfidence, hit.RelevanceScore),
		Snippet:     hit.Description,
		Reasoning:   fmt.Sprintf("Found on %s with relevance score %.2f", hit.Domain, hit.RelevanceScore),
		FoundAt:     n.now().UTC(),
	}
}

// ClassifySocial builds a normalized result for one platform listing,
// applying the fixed platform risk table and fallback chains for the sparse
// hit record.
func (n *Normalizer) ClassifySocial(platform string, hit model.RawSocialHit, ordinal int) model.NormalizedResult {
	key := strings.ToLower(platform)
	risk, ok := platformRisk[key]
	if !ok {
		risk = model.RiskMedium
	}

	label := titleCase(key)
	displayName := firstNonEmpty(hit.Title, hit.Name, label+" Profile")
	sourceURL := hit.URL
	if sourceURL == "" {
		sourceURL = fmt.Sprintf("https://%s.com", key)
	}

	return model.NormalizedResult{
		ID:          fmt.Sprintf("social-%s-%d", key, ordinal),
		DisplayName: displayName,
		SourceURL:   sourceURL,
		RiskLevel:   risk,
		DataTypes:   dedupe([]string{label + " Profile", "Social Media", catchAllTag}),
		Confidence:  socialConfidence,
		Snippet:     firstNonEmpty(hit.Description, hit.Bio, hit.Snippet),
		Reasoning:   fmt.Sprintf("Found on %s social media platform", key),
		FoundAt:     n.now().UTC(),
	}
}

// decodeList leniently decodes a raw collection into its elements. A missing
// or non-array value yields no elements and a warning.
func (n *Normalizer) decodeList(raw json.RawMessage, field string) []json.RawMessage {
	if isAbsent(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		n.log.Warn().Str("field", field).Err(err).Msg("collection is not a list, skipping")
		return nil
	}
	return items
}

// decodeSocial leniently decodes the per-platform social map. A missing or
// non-object value yields an empty map and a warning.
func (n *Normalizer) decodeSocial(raw json.RawMessage) map[string]json.RawMessage {
	if isAbsent(raw) {
		return nil
	}
	var byPlatform map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byPlatform); err != nil {
		n.log.Warn().Str("field", "socialMedia").Err(err).Msg("collection is not a map, skipping")
		return nil
	}
	return byPlatform
}

// decodeEntry decodes one collection element, skipping null and non-object
// values with a warning.
func (n *Normalizer) decodeEntry(entry json.RawMessage, dst interface{}, field string, index int) bool {
	if isAbsent(entry) {
		n.log.Warn().Str("field", field).Int("index", index).Msg("skipping null entry")
		return false
	}
	if err := json.Unmarshal(entry, dst); err != nil {
		n.log.Warn().Str("field", field).Int("index", index).Err(err).
			Msg("skipping malformed entry")
		return false
	}
	return true
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// riskFromRelevance maps a backend relevance score onto the four risk levels.
func riskFromRelevance(score float64) model.RiskLevel {
	switch {
	case score >= criticalThreshold:
		return model.RiskCritical
	case score >= highThreshold:
		return model.RiskHigh
	case score >= mediumThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// matchSocialDomain tests domain and URL (case-insensitive substring) against
// the known social domains. Returns nil when no rule matches.
func matchSocialDomain(domain, url string) *socialDomainRule {
	haystack := strings.ToLower(domain) + " " + strings.ToLower(url)
	for i := range socialDomainRules {
		for _, d := range socialDomainRules[i].domains {
			if strings.Contains(haystack, d) {
				return &socialDomainRules[i]
			}
		}
	}
	return nil
}

// matchCategory applies the ordered keyword heuristics to a non-social hit.
func matchCategory(domain, description string) []string {
	domain = strings.ToLower(domain)
	description = strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.domainKeywords {
			if strings.Contains(domain, kw) {
				return rule.tags
			}
		}
		for _, kw := range rule.descKeywords {
			if strings.Contains(description, kw) {
				return rule.tags
			}
		}
	}
	return defaultCategoryTags
}

// dedupe removes duplicate tags while preserving first-seen order.
func dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
