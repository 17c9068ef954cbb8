package domain

// Well-known metadata keys. Every indexed document carries at least
// MetaID, MetaType and MetaEntityType; scoping keys are optional.
const (
	// MetaID is the originating entity's identifier.
	MetaID = "id"

	// MetaOriginalID links a chunked document back to its logical entity.
	// Deletion by entity ID matches MetaID or MetaOriginalID.
	MetaOriginalID = "originalId"

	// MetaType is the coarse category ("campaign", "task", "offer", ...).
	MetaType = "type"

	// MetaEntityType is the precise domain type name ("Campaign", "Offer", ...).
	MetaEntityType = "entityType"

	// MetaCampaignID scopes a document to a campaign.
	MetaCampaignID = "campaignId"

	// MetaWorkspaceID scopes a document to a workspace.
	MetaWorkspaceID = "workspaceId"
)

// SentinelContent is the content of the placeholder document seeded into an
// empty store. The store must never be empty, so a fresh or fully-emptied
// store always contains exactly this document.
const SentinelContent = "Marketing Assistant Initialized"

// SentinelType is the metadata type of the sentinel document. Documents of
// this type are never cited as answer sources.
const SentinelType = "system"

// Document is the unit stored in the vector store: a denormalised text
// rendering of a workspace entity plus its metadata tags.
//
// Re-indexing an entity appends a new Document rather than updating in
// place; callers must delete-then-reindex for updates.
type Document struct {
	// ID uniquely identifies this stored document (not the entity).
	ID string

	// Content is the self-describing text blob that gets embedded.
	Content string

	// Metadata holds the tags used for filtering and citation. See the
	// Meta* constants for well-known keys.
	Metadata map[string]any

	// Embedding is the vector representation of Content. Populated by the
	// vector store when the document is added.
	Embedding []float32
}

// MetaString returns a string metadata value, or "" when absent or not a string.
func (d Document) MetaString(key string) string {
	v, ok := d.Metadata[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// EntityID returns the originating entity ID (MetaID).
func (d Document) EntityID() string {
	return d.MetaString(MetaID)
}

// TypeKey returns the grouping key for document counts:
// entityType, falling back to type, falling back to "unknown".
func (d Document) TypeKey() string {
	if t := d.MetaString(MetaEntityType); t != "" {
		return t
	}
	if t := d.MetaString(MetaType); t != "" {
		return t
	}
	return "unknown"
}

// IsSentinel reports whether this is the placeholder document seeded into
// an empty store.
func (d Document) IsSentinel() bool {
	return d.MetaString(MetaType) == SentinelType
}

// SentinelDocument returns the placeholder document used to seed an empty
// store.
func SentinelDocument() Document {
	return Document{
		Content: SentinelContent,
		Metadata: map[string]any{
			MetaType: SentinelType,
		},
	}
}

// DeleteFilter selects documents for deletion. A document matches only if
// it satisfies ALL set fields (conjunctive match). Callers wanting OR
// semantics issue multiple deletes.
type DeleteFilter struct {
	// CampaignID matches documents scoped to this campaign.
	CampaignID string

	// Type matches the coarse category.
	Type string

	// EntityType matches the precise domain type name.
	EntityType string
}

// IsZero reports whether no filter fields are set. A zero filter matches
// nothing; deleting with it is a no-op, never a full wipe.
func (f DeleteFilter) IsZero() bool {
	return f.CampaignID == "" && f.Type == "" && f.EntityType == ""
}

// Matches reports whether the document satisfies every set filter field.
func (f DeleteFilter) Matches(doc Document) bool {
	if f.IsZero() {
		return false
	}
	if f.CampaignID != "" && doc.MetaString(MetaCampaignID) != f.CampaignID {
		return false
	}
	if f.Type != "" && doc.MetaString(MetaType) != f.Type {
		return false
	}
	if f.EntityType != "" && doc.MetaString(MetaEntityType) != f.EntityType {
		return false
	}
	return true
}
