package domain

// ExternalID identifies a comic in the external source catalog.
// It is derived once from user input and never changes afterwards.
type ExternalID int64

// ExistsInfo carries the catalog-side document id for an already
// catalogued comic.
type ExistsInfo struct {
	DocumentID int64
}

type CatalogStateKind string

const (
	StateExists        CatalogStateKind = "exists"
	StateNeedsMetadata CatalogStateKind = "needs_metadata"
	StateReadyToSubmit CatalogStateKind = "ready_to_submit"
)

// CatalogState is the outcome of probing the backend for one ExternalID.
// It is computed fresh per request and never cached; the backend stays
// authoritative for catalog membership.
type CatalogState struct {
	Kind        CatalogStateKind
	DocumentID  int64
	MissingTags []TagRef
}

// TagRef is one named classification entry (character, parody or tag).
// The backend may omit the name field.
type TagRef struct {
	Name string `json:"name"`
}

// CandidateResult is one search hit as returned by the backend.
type CandidateResult struct {
	ID         ExternalID `json:"id"`
	Title      string     `json:"title"`
	GalleryURL string     `json:"galleryurl"`
	Parodies   []TagRef   `json:"parodys"`
	Characters []TagRef   `json:"characters"`
	Tags       []TagRef   `json:"tags"`
}

// RenderedResult pairs a candidate with its user-facing text and a
// best-effort thumbnail. Image is nil when the thumbnail could not be
// fetched; the text then carries an inline annotation instead.
type RenderedResult struct {
	Candidate CandidateResult
	Text      string
	Image     []byte
}

type SegmentKind string

const (
	SegmentReply SegmentKind = "reply"
	SegmentText  SegmentKind = "text"
	SegmentOther SegmentKind = "other"
)

// Segment is one part of a composite inbound message as re-delivered by
// the host transport. For SegmentReply, Text holds the full text of the
// referenced original message.
type Segment struct {
	Kind SegmentKind
	Text string
}

// ReplyEvent is a transport-neutral view of an inbound reply used by the
// confirmation protocol.
type ReplyEvent struct {
	Segments []Segment
}
