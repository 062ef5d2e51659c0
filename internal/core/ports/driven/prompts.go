package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fall back to built-in defaults.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt has not been customised, implementations return a
	// built-in default rather than an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptLegalQA answers a question from retrieved legal context.
	// Placeholders: %s (context), %s (chat history), %s (question).
	PromptLegalQA = "legal_qa"

	// PromptCondenseQuestion rewrites a follow-up question into a
	// standalone one. Placeholders: %s (chat history), %s (question).
	PromptCondenseQuestion = "condense_question"

	// PromptMemorySummary compresses older conversation turns while
	// preserving legal entities, citations, jurisdictions and open
	// questions. Placeholder: %s (conversation).
	PromptMemorySummary = "memory_summary"
)
