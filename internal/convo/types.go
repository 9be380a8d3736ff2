// Package convo implements the deterministic conversation interpretation
// pipeline: input sanitization, capability/ambiguity gating, reference
// resolution, persona and intent classification, and company-name
// extraction. Everything here is a pure function over an explicit history
// snapshot; nothing calls the storage layer or a generation backend.
package convo

// Persona is a soft behavioral classification of a user's interaction
// style, used only to tune response tone.
type Persona string

const (
	PersonaUnknown   Persona = "unknown"
	PersonaConfused  Persona = "confused"
	PersonaEfficient Persona = "efficient"
	PersonaChatty    Persona = "chatty"
	PersonaEdgeCase  Persona = "edge_case"
)

// Intent classifies what action a single prompt requests.
type Intent string

const (
	IntentResearch Intent = "research"
	IntentUpdate   Intent = "update"
	IntentClarify  Intent = "clarify"
	IntentChat     Intent = "chat"
	IntentOffTopic Intent = "off_topic"
	IntentHelp     Intent = "help"
)

// Turn is the pipeline's view of one conversation message. The storage
// layer maps its rows into this shape before classification; classifiers
// never read the database directly.
type Turn struct {
	Role     string
	Content  string
	Metadata map[string]string
}

// Verdict is the result of prompt validation. Message and Suggestions are
// canned, deterministic strings surfaced directly as a conversational reply.
type Verdict struct {
	Valid       bool
	Message     string
	Suggestions []string
}
