package domain

import "strings"

// AskContext carries the caller's situation into an assistant query.
// All fields are optional; the zero value means a global, unscoped question.
type AskContext struct {
	// WorkspaceID scopes retrieval and the answer cache to a workspace.
	WorkspaceID string

	// CampaignID scopes retrieval to a single campaign. Takes precedence
	// over WorkspaceID when both are set.
	CampaignID string

	// CurrentPath is the UI route the user is viewing (e.g. "/pricing").
	// Used to enhance short queries with page-specific vocabulary.
	CurrentPath string

	// Persona overrides the assistant persona in the prompt.
	Persona string
}

// Source is a navigable citation derived from a retrieved document.
type Source struct {
	// Type is the coarse category of the cited entity.
	Type string `json:"type"`

	// EntityType is the precise domain type name.
	EntityType string `json:"entityType"`

	// ID is the stored document's entity ID.
	ID string `json:"id"`

	// OriginalID is the logical entity ID for chunked documents.
	// Equals ID when the document is not chunked.
	OriginalID string `json:"originalId"`

	// CampaignID is the campaign scope of the cited entity, if any.
	CampaignID string `json:"campaignId,omitempty"`

	// WorkspaceID is the workspace scope of the cited entity, if any.
	WorkspaceID string `json:"workspaceId,omitempty"`

	// Preview is the first 100 characters of the cited content.
	Preview string `json:"preview"`

	// URL is the frontend route where the cited entity lives.
	URL string `json:"url"`

	// Title is a short human-readable label extracted from the content.
	Title string `json:"title"`
}

// Answer is a grounded assistant response.
type Answer struct {
	// Answer is the model's response text.
	Answer string `json:"answer"`

	// Sources are the citations for the retrieved documents.
	Sources []Source `json:"sources"`

	// Cached reports whether the answer was served from the query cache.
	Cached bool `json:"cached"`
}

// DefaultRoute is the navigation fallback for unknown entity types.
const DefaultRoute = "/dashboard"

// entityRoutes maps entity types (both coarse and precise names) to
// frontend routes for source navigation.
var entityRoutes = map[string]string{
	"campaign":              "/campaigns",
	"Campaign":              "/campaigns",
	"task":                  "/gtm",
	"GTMTask":               "/gtm",
	"content":               "/studio",
	"ContentAsset":          "/studio",
	"brand_kit":             "/branding",
	"BrandKit":              "/branding",
	"audience":              "/profile",
	"AudienceProfile":       "/profile",
	"offer":                 "/profile",
	"Offer":                 "/profile",
	"copy":                  "/copy-craft",
	"CopyProject":           "/copy-craft",
	"brand_project":         "/branding",
	"BrandProject":          "/branding",
	"email_project":         "/email-marketing",
	"EmailMarketingProject": "/email-marketing",
	"market_insight":        "/reddit-intel",
	"MarketInsight":         "/reddit-intel",
	"strategy":              "/pricing",
	"StrategyContent":       "/pricing",
	"pricing":               "/pricing",
	"competitive":           "/competitive",
}

// RouteForEntity resolves the frontend route for a document's metadata.
// The precise entity type wins over the coarse type; unknown types fall
// back to DefaultRoute.
func RouteForEntity(entityType, coarseType string) string {
	if route, ok := entityRoutes[entityType]; ok {
		return route
	}
	if route, ok := entityRoutes[coarseType]; ok {
		return route
	}
	return DefaultRoute
}

// maxTitleLength bounds extracted source titles.
const maxTitleLength = 60

// TitleFromContent extracts a short title from document content.
// The first line usually reads "Label: Value"; the value part is taken
// when present, otherwise the whole first line, truncated to 60 characters.
func TitleFromContent(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	firstLine := strings.TrimSpace(lines[0])

	if idx := strings.Index(firstLine, ":"); idx >= 0 && idx < len(firstLine)-1 {
		value := strings.TrimSpace(firstLine[idx+1:])
		if value != "" {
			return truncate(value, maxTitleLength)
		}
	}

	return truncate(firstLine, maxTitleLength)
}

// truncate shortens s to at most n characters, never splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
