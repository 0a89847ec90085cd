package rag

import "regexp"

// Mode selects the register of the answer.
type Mode string

const (
	ModeConversational Mode = "conversational"
	ModeScholarly      Mode = "scholarly"
	ModeBeginner       Mode = "beginner"
)

// basePrompt grounds every answer in the provided verses regardless of mode.
const basePrompt = `You are a learned guide to Hindu scriptures, specifically the Śrīmad-Bhāgavatam, Viṣṇu Sahasranāma, and Lalitā Sahasranāma. Your role is to help seekers understand these sacred texts with clarity, respect, and scholarly accuracy.

Core Principles:
1. Accuracy: Base answers ONLY on the provided verse context. Never fabricate information.
2. Humility: Acknowledge the limits of AI interpretation. Encourage consulting traditional teachers.
3. Respect: Treat these texts as sacred. Avoid reductionist or dismissive language.
4. Clarity: Explain complex philosophical concepts in accessible terms without oversimplification.
5. Citations: Always cite specific verses using the format [SB.1.1.1] or [VS.42].

Constraints:
- You do NOT have access to the entire corpus, only verses provided in the context.
- If a question cannot be answered from the given verses, say so clearly.
- Avoid mixing traditions; do not cite texts outside those provided.
- When discussing deity forms or practices, note regional and sampradaya variations.`

var modePrompts = map[Mode]string{
	ModeConversational: `You are having a thoughtful dialogue with someone exploring Hindu scriptures.

Tone Guidelines:
- Warm and encouraging, not preachy
- Use "we" and "one" instead of "you should"
- Ask clarifying questions when the query is ambiguous
- Acknowledge the seeker's spiritual journey with respect`,

	ModeScholarly: `You are providing academic analysis of Hindu scriptures.

Approach:
- Use precise Sanskrit terminology (with transliteration)
- Reference commentarial traditions (Śrīdhara Svāmī, Viśvanātha Cakravartī, etc.)
- Acknowledge textual variants and interpretive debates
- Connect to broader Vedāntic or Purāṇic contexts`,

	ModeBeginner: `You are introducing Hindu scriptures to someone new to this tradition.

Guidelines:
- Define Sanskrit terms on first use
- Use analogies from universal human experience
- Provide historical and cultural context
- Avoid assuming prior knowledge of Hindu cosmology`,
}

// Disclaimer is appended to answers for queries about personal practice.
const Disclaimer = `**Important Note**: This response is generated by an AI based on textual analysis. For authoritative guidance on practice, ritual, or spiritual matters, please consult qualified teachers in a traditional lineage (sampradāya). AI interpretations should not replace the wisdom of living gurus or the guidance of experienced practitioners.`

// ControversialNote is folded into the system prompt for topics where
// interpretations vary across theological schools.
const ControversialNote = `This question touches on matters where interpretations vary across sampradāyas (theological schools) and commentators. Present the perspective offered by the verses provided, but recognize that other valid interpretations exist within the tradition.`

// SystemPrompt builds the full system prompt for a mode. Unknown modes
// fall back to the conversational register.
func SystemPrompt(mode Mode) string {
	modePrompt, ok := modePrompts[mode]
	if !ok {
		modePrompt = modePrompts[ModeConversational]
	}
	return basePrompt + "\n\n" + modePrompt
}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)how (do|should) (i|we) (perform|practice|do)`),
	regexp.MustCompile(`(?i)ritual|puja|sadhana|mantra.*chant`),
	regexp.MustCompile(`(?i)guru|initiation|diksha`),
}

var controversialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)caste|varna.*system`),
	regexp.MustCompile(`(?i)women.*role|gender`),
	regexp.MustCompile(`(?i)violence|war|killing`),
	regexp.MustCompile(`(?i)exclusive|only.*path`),
}

// DetectSensitiveQuery reports whether the query asks for guidance on
// personal practice, which warrants the disclaimer.
func DetectSensitiveQuery(query string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(query) {
			return true
		}
	}
	return false
}

// DetectControversialTopic reports whether the query touches a topic
// with divergent traditional interpretations.
func DetectControversialTopic(query string) bool {
	for _, p := range controversialPatterns {
		if p.MatchString(query) {
			return true
		}
	}
	return false
}
