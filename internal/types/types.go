// Package types holds the data model shared across the orchestration
// pipeline (spec §3): conversation turns, the tagged Intent record,
// researcher/publication/candidate rows, and per-request telemetry.
package types

// Role is a conversation turn's speaker.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one entry of the bounded conversation history (spec §3).
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// MaxHistoryTurns is the hard cap applied when trimming conversation history.
const MaxHistoryTurns = 10

// IntentKind is the closed catalog of tagged intents (spec §4.4). Adding a
// member here is a spec change, not a runtime configuration option.
type IntentKind string

const (
	AuthorPublicationsRange       IntentKind = "AUTHOR_PUBLICATIONS_RANGE"
	AuthorLatestPublication       IntentKind = "AUTHOR_LATEST_PUBLICATION"
	AuthorTopVenue                IntentKind = "AUTHOR_TOP_VENUE"
	AuthorPairSharedPublications  IntentKind = "AUTHOR_PAIR_SHARED_PUBLICATIONS"
	AuthorTopCoauthors            IntentKind = "AUTHOR_TOP_COAUTHORS"
	AuthorTopicPublicationCount   IntentKind = "AUTHOR_TOPIC_PUBLICATION_COUNT"
	AuthorTopicExtent             IntentKind = "AUTHOR_TOPIC_EXTENT"
	AuthorMainResearchAreas       IntentKind = "AUTHOR_MAIN_RESEARCH_AREAS"
	AuthorTopicSynergy            IntentKind = "AUTHOR_TOPIC_SYNERGY"
	AuthorInstitutionCollabFreq   IntentKind = "AUTHOR_INSTITUTION_COLLAB_FREQUENCY"
	AuthorTopicPeersAtUOfA        IntentKind = "AUTHOR_TOPIC_PEERS_AT_UOFA"
	DepartmentTopicTrends         IntentKind = "DEPARTMENT_TOPIC_TRENDS"
	OpenQuestion                  IntentKind = "OPEN_QUESTION"
)

// AuthorRequired is the set of intents that must have author_id populated
// before template execution (spec §3 invariant). The planner does not consult
// this set: ROUTE checks TemplateIntents plus planner.RequiredSlotsPresent.
var AuthorRequired = map[IntentKind]bool{
	AuthorPublicationsRange:      true,
	AuthorLatestPublication:      true,
	AuthorTopVenue:               true,
	AuthorPairSharedPublications: true,
	AuthorTopCoauthors:           true,
	AuthorTopicPublicationCount:  true,
	AuthorTopicExtent:            true,
	AuthorMainResearchAreas:      true,
	AuthorTopicSynergy:           true,
	AuthorInstitutionCollabFreq:  true,
	AuthorTopicPeersAtUOfA:       true,
}

// TemplateIntents is the closed set of intents with a dedicated query shape
// (spec §4.7's ROUTE state); DEPARTMENT_TOPIC_TRENDS has one too but keys off
// department rather than author.
var TemplateIntents = map[IntentKind]bool{
	AuthorPublicationsRange:      true,
	AuthorLatestPublication:      true,
	AuthorTopVenue:               true,
	AuthorPairSharedPublications: true,
	AuthorTopCoauthors:           true,
	AuthorTopicPublicationCount:  true,
	AuthorTopicExtent:            true,
	AuthorMainResearchAreas:      true,
	AuthorTopicSynergy:           true,
	AuthorInstitutionCollabFreq:  true,
	AuthorTopicPeersAtUOfA:       true,
	DepartmentTopicTrends:        true,
}

// TopicBearing is the subset of intents that trigger parallel topic semantic
// retrieval in C7 (spec §4.4).
var TopicBearing = map[IntentKind]bool{
	AuthorTopicPublicationCount: true,
	AuthorTopicExtent:           true,
	AuthorTopicSynergy:          true,
	AuthorTopicPeersAtUOfA:      true,
	DepartmentTopicTrends:       true,
}

// Intent is the single tagged record shape shared by every intent kind
// (spec §9's design note: one record, not one struct per intent). All
// fields besides Kind are optional and defensively defaulted to zero values
// by the normalizer/planner.
type Intent struct {
	Kind             IntentKind `json:"intent_kind"`
	Author           string     `json:"author,omitempty"`
	SecondAuthor     string     `json:"second_author,omitempty"`
	AuthorID         string     `json:"author_id,omitempty"`
	SecondAuthorID   string     `json:"second_author_id,omitempty"`
	Topic            string     `json:"topic,omitempty"`
	Department       string     `json:"department,omitempty"`
	Departments       []string   `json:"departments,omitempty"`
	StartYear        int        `json:"start_year,omitempty"`
	EndYear          int        `json:"end_year,omitempty"`
	Scope            string     `json:"scope,omitempty"`
}

// HasDepartmentList reports whether the department slot was expanded to an
// explicit list by the normalizer, rather than remaining a single string.
func (i Intent) HasDepartmentList() bool {
	return len(i.Departments) > 0
}

// Researcher is a graph-sourced researcher record (spec §3). Not owned by
// the core; read-only projection of graph properties.
type Researcher struct {
	UserID            string `json:"user_id,omitempty"`
	CCID              string `json:"ccid,omitempty"`
	Name              string `json:"name"`
	NormalizedName    string `json:"normalized_name"`
	ExternalAuthorURL string `json:"external_author_url,omitempty"`
	Departments       []string `json:"departments,omitempty"`
}

// InCohort reports whether a researcher belongs to the in-house cohort: the
// resolver invariant is "user_id or ccid present" (spec §3).
func (r Researcher) InCohort() bool {
	return r.UserID != "" || r.CCID != ""
}

// PublicationHit is a semantic-retrieval result (spec §3, produced by C9).
type PublicationHit struct {
	WorkURL      string  `json:"work_url"`
	Title        string  `json:"title"`
	Abstract     string  `json:"abstract,omitempty"`
	Year         int     `json:"year,omitempty"`
	CitedByCount int     `json:"cited_by_count,omitempty"`
	DOI          string  `json:"doi,omitempty"`
	Score        float64 `json:"score"`
}

// Candidate is a fuzzy-match researcher row returned for disambiguation
// (spec §3, produced by C6's fuzzy step).
type Candidate struct {
	UserID         string   `json:"user_id,omitempty"`
	CCID           string   `json:"ccid,omitempty"`
	Name           string   `json:"name"`
	NormalizedName string   `json:"normalized_name"`
	Departments    []string `json:"departments,omitempty"`
	Score          float64  `json:"score"`
}

// HasStableID reports whether the candidate carries at least one cohort id,
// the invariant spec §8 requires of every candidate in a response.
func (c Candidate) HasStableID() bool {
	return c.UserID != "" || c.CCID != ""
}

// ResolutionPath is the outcome of author resolution (spec §3).
type ResolutionPath string

const (
	ResolutionNone  ResolutionPath = "NONE"
	ResolutionExact ResolutionPath = "EXACT"
	ResolutionFuzzy ResolutionPath = "FUZZY"
)

// ResolutionMetadata is attached to telemetry for every resolution attempt
// (spec §3).
type ResolutionMetadata struct {
	Path        ResolutionPath `json:"path"`
	FuzzyScores []float64      `json:"fuzzy_scores,omitempty"`
}

// Telemetry is the per-request timing and resolution record (spec §3).
type Telemetry struct {
	Timings    map[string]float64  `json:"timings"`
	Resolution *ResolutionMetadata `json:"resolution,omitempty"`
}

// NewTelemetry returns an empty telemetry record ready for stage timings.
func NewTelemetry() *Telemetry {
	return &Telemetry{Timings: map[string]float64{}}
}

// Row is a generic graph-query result row: column name to scalar/list/map value.
type Row map[string]interface{}
