package chat

// Status is the outcome reported in every response envelope.
// Serialized as the same strings the web client already expects.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFallback Status = "fallback"
	StatusError    Status = "error"
)

// Conciseness rates an answer by word count.
type Conciseness string

const (
	ConcisenessExcellent Conciseness = "Excellent"
	ConcisenessGood      Conciseness = "Good"
	ConcisenessVerbose   Conciseness = "Verbose"
	ConcisenessNA        Conciseness = "N/A"
)

// KnowledgeBase tells the caller whether retrieved context grounded the answer.
type KnowledgeBase string

const (
	KnowledgeBaseEnhanced    KnowledgeBase = "Enhanced"
	KnowledgeBaseStandard    KnowledgeBase = "Standard"
	KnowledgeBaseUnavailable KnowledgeBase = "Unavailable"
	KnowledgeBaseError       KnowledgeBase = "Error"
)

// Preference identifies which provider the caller wants first.
type Preference string

const (
	PreferenceGroq   Preference = "groq"
	PreferenceGemini Preference = "gemini"
)

// ParsePreference maps the raw "model" field to a provider preference.
// Anything unrecognized (including empty) means the default ordering.
func ParsePreference(raw string) Preference {
	if Preference(raw) == PreferenceGemini {
		return PreferenceGemini
	}
	return PreferenceGroq
}

// Request is the payload of POST /chat.
type Request struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

// Metrics summarizes an answer for the UI.
type Metrics struct {
	Words         int           `json:"words"`
	Conciseness   Conciseness   `json:"conciseness"`
	KnowledgeBase KnowledgeBase `json:"knowledge_base"`
}

// Response is the envelope returned for every chat request.
// Metrics is nil only on the empty-question path.
type Response struct {
	Answer  string   `json:"answer"`
	Model   string   `json:"model"`
	Status  Status   `json:"status"`
	Metrics *Metrics `json:"metrics,omitempty"`
}

// Snippet is one passage returned by a retrieval backend.
type Snippet struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// Availability reports which collaborators the service currently holds.
type Availability struct {
	Groq      bool
	Gemini    bool
	Retriever bool
}
