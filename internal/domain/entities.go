package domain

import "time"

// Platform identifică rețeaua socială țintă.
type Platform string

// Platformele suportate.
const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// PostType identifică tipul de postare cerut.
type PostType string

// Tipurile de postare suportate.
const (
	PostTypeInformative PostType = "informative"
	PostTypeService     PostType = "service"
	PostTypeCommunity   PostType = "community"
	PostTypeSeasonal    PostType = "seasonal"
	PostTypeSupportive  PostType = "supportive"
)

// Tone identifică tonul cerut pentru conținut.
type Tone string

// Tonurile suportate.
const (
	ToneFormal        Tone = "formal"
	ToneWarm          Tone = "cald"
	ToneCompassionate Tone = "compasionat"
)

// WordCount identifică clasa de lungime a textului.
type WordCount string

// Clasele de lungime suportate.
const (
	WordCountShort  WordCount = "short"
	WordCountMedium WordCount = "medium"
	WordCountLong   WordCount = "long"
)

// VariantKind identifică felul unei variante de conținut.
type VariantKind string

// Felurile de variante, exact una din fiecare per rulare.
const (
	VariantSafe      VariantKind = "safe"
	VariantCreative  VariantKind = "creative"
	VariantEmotional VariantKind = "emotional"
)

// FuneralContext descrie elementele funerare detectate într-o imagine.
type FuneralContext struct {
	IsFuneralRelated bool
	Elements         []string
	SuggestedTone    string
}

// MediaAnalysis conține analiza structurată a unei imagini sau a unui video.
type MediaAnalysis struct {
	Description     string
	Objects         []string
	Mood            string
	Colors          []string
	SuggestedThemes []string
	IsAppropriate   bool
	FuneralContext  *FuneralContext
}

// BrandSettings conține suprascrieri de brand per cerere.
type BrandSettings struct {
	CompanyName    string
	Description    string
	ToneBalance    int
	EmotionalLevel int
	ReligiousLevel int
}

// GenerationRequest descrie o cerere de generare; imuabilă după construire.
type GenerationRequest struct {
	Platform      Platform
	PostType      PostType
	Tone          Tone
	WordCount     WordCount
	CustomPrompt  string
	Media         []byte
	MediaMIME     string
	MediaAnalysis *MediaAnalysis
	BrandSettings *BrandSettings
}

// ContextBundle conține blocurile de context citite o singură dată per rulare.
type ContextBundle struct {
	Knowledge   string
	Calendar    string
	BrandVoice  string
	RecentPosts []string
}

// ResearchFindings conține semnalele de relevanță extrase de cercetător.
type ResearchFindings struct {
	RelevantServices []string
	Opportunities    []string
	Warnings         []string
	KeyFacts         []string
	SuggestedAngle   string
	Knowledge        string
	Calendar         string
	BrandVoice       string
	RecentPosts      []string
}

// ServiceMention indică gradul de menționare a serviciilor în conținut.
type ServiceMention string

// Gradele de menționare a serviciilor.
const (
	MentionNone   ServiceMention = "none"
	MentionSubtle ServiceMention = "subtle"
	MentionDirect ServiceMention = "direct"
)

// VariantTemperatures conține temperaturile țintă per variantă.
type VariantTemperatures struct {
	Safe      float64
	Creative  float64
	Emotional float64
}

// Strategy descrie planul de conținut pentru o singură rulare.
type Strategy struct {
	Objective           string
	EmotionalApproach   string
	PersuasionPrinciple string
	ContentStructure    string
	KeyMessage          string
	Angle               string
	ServiceMention      ServiceMention
	Temperatures        VariantTemperatures
	Hooks               []string
	CTAs                []string
}

// ContentVariant este o variantă de conținut produsă de scriitor.
type ContentVariant struct {
	Kind            VariantKind
	Hook            string
	Body            string
	CTA             string
	Content         string
	TemperatureUsed float64
}

// IssueKind identifică tipul unei probleme semnalate de editor.
type IssueKind string

// Tipurile de probleme editoriale.
const (
	IssueGrammar     IssueKind = "grammar"
	IssueSensitivity IssueKind = "sensitivity"
	IssueBrandVoice  IssueKind = "brand_voice"
	IssueDiacritics  IssueKind = "diacritics"
	IssueLength      IssueKind = "length"
)

// IssueSeverity identifică severitatea unei probleme editoriale.
type IssueSeverity string

// Severitățile suportate.
const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
	SeverityInfo    IssueSeverity = "info"
)

// EditIssue descrie o problemă găsită de editor.
type EditIssue struct {
	Kind       IssueKind
	Text       string
	Suggestion string
	Severity   IssueSeverity
}

// EditReview conține rezultatul verificării editoriale.
type EditReview struct {
	Passed           bool
	GrammarScore     int
	SensitivityScore int
	BrandVoiceScore  int
	Issues           []EditIssue
	ImprovedVariants []ContentVariant
}

// HashtagSets grupează hashtag-urile pe niveluri.
type HashtagSets struct {
	Primary   []string
	Secondary []string
	Trending  []string
}

// All întoarce toate hashtag-urile într-o singură listă.
func (h HashtagSets) All() []string {
	out := make([]string, 0, len(h.Primary)+len(h.Secondary)+len(h.Trending))
	out = append(out, h.Primary...)
	out = append(out, h.Secondary...)
	out = append(out, h.Trending...)
	return out
}

// PostingSuggestion recomandă ferestrele de postare.
type PostingSuggestion struct {
	BestTimes []string
	BestDays  []string
	Avoid     []string
}

// EngagementBreakdown detaliază scorul de engagement pe componente.
type EngagementBreakdown struct {
	Hook        int
	Emotion     int
	PlatformFit int
	Timing      int
	Visual      int
	Hashtags    int
}

// Total însumează cele șase componente.
func (b EngagementBreakdown) Total() int {
	return b.Hook + b.Emotion + b.PlatformFit + b.Timing + b.Visual + b.Hashtags
}

// Confidence indică încrederea în predicția de engagement.
type Confidence string

// Nivelurile de încredere.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// EngagementPrediction conține predicția brută de engagement.
type EngagementPrediction struct {
	Score      int
	Breakdown  EngagementBreakdown
	Confidence Confidence
}

// Optimization conține rezultatul optimizatorului.
type Optimization struct {
	Hashtags             HashtagSets
	EngagementPrediction EngagementPrediction
	PostingSuggestion    PostingSuggestion
	VisualRecommendation string
	Tip                  string
}

// GeneratedPost este unitatea persistată și returnată apelantului.
type GeneratedPost struct {
	ID               string
	Variant          ContentVariant
	Hashtags         []string
	Tip              string
	EngagementScore  int
	VisualSuggestion string
	BestPostingTime  string
	ScheduledFor     *time.Time
	Rating           int
	WasUsed          bool
	IsFavorite       bool
}

// SimilarMatch descrie o postare istorică apropiată de conținutul nou.
type SimilarMatch struct {
	PostID      string
	Excerpt     string
	Similarity  float64
	GeneratedAt time.Time
}

// SimilarityReport este rezultatul detectării de conținut repetitiv.
type SimilarityReport struct {
	IsSimilar    bool
	SimilarPosts []SimilarMatch
	Warning      string
}

// GenerationMetadata descrie metadatele unei rulări.
type GenerationMetadata struct {
	Platform         Platform
	PostType         PostType
	Tone             Tone
	GeneratedAt      time.Time
	ProcessingTimeMs int64
}

// GenerationResult este răspunsul operației Generate.
type GenerationResult struct {
	Success    bool
	Posts      []GeneratedPost
	Similarity SimilarityReport
	Metadata   GenerationMetadata
	Error      string
}

// KnowledgeEntry este o intrare din baza de cunoștințe.
type KnowledgeEntry struct {
	ID       string
	Category string
	Title    string
	Content  string
	Priority int
	IsActive bool
}

// CalendarEvent este un eveniment din calendarul editorial.
type CalendarEvent struct {
	ID                 string
	Name               string
	Date               time.Time
	Importance         int
	ContentThemes      []string
	ToneRecommendation string
	AvoidSales         bool
}

// BrandVoice este o regulă din ghidul vocii de brand.
type BrandVoice struct {
	ID        string
	Attribute string
	Value     string
	Examples  []string
	Avoid     []string
	IsActive  bool
}

// PostRecord este rândul persistat în istoricul de postări.
type PostRecord struct {
	ID            string
	Platform      Platform
	PostType      PostType
	Tone          Tone
	VariantKind   VariantKind
	Content       string
	Hashtags      []string
	CustomPrompt  string
	Tip           string
	Engagement    int
	Rating        int
	WasUsed       bool
	WasEdited     bool
	EditedContent string
	IsFavorite    bool
	ScheduledFor  *time.Time
	GeneratedAt   time.Time
}

// PatternKind identifică tipul unui șablon de conținut învățat.
type PatternKind string

// Tipurile de șabloane.
const (
	PatternHook         PatternKind = "hook"
	PatternCTA          PatternKind = "cta"
	PatternHashtagCombo PatternKind = "hashtag_combo"
)

// PatternScopeAll marchează un șablon aplicabil tuturor platformelor sau tipurilor.
const PatternScopeAll = "all"

// ContentPattern este un șablon reutilizabil extras din postări apreciate.
type ContentPattern struct {
	Kind         PatternKind
	Pattern      string
	SuccessScore float64
	Platform     string
	PostType     string
	UsageCount   int
	LastUsed     time.Time
}

// FeedbackEvent este un eveniment de rating sau de utilizare a unei postări.
type FeedbackEvent struct {
	PostID        string    `json:"post_id"`
	Rating        int       `json:"rating"`
	WasUsed       bool      `json:"was_used"`
	EditedContent string    `json:"edited_content,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
