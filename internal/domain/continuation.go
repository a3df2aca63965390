package domain

// Actions the continuation classifier may select. Exactly one per response.
const (
	ActionAppend  = "APPEND"  // regular creative continuation
	ActionReplace = "REPLACE" // edit of existing text
	ActionChapter = "CHAPTER" // continuation that opens a new chapter
	ActionChat    = "CHAT"    // conversational, no story mutation
	ActionRefuse  = "REFUSE"  // declined unsafe request
)

type ContinuationRequest struct {
	AIName       string `json:"ai_name"`
	Genre        string `json:"genre"`
	StoryContext string `json:"story_context"`
	UserInput    string `json:"user_input" validate:"required"`
}

// ContinuationResponse carries the classified action. NewChapterTitle is set
// only for CHAPTER and omitted otherwise; StoryText is empty for CHAT/REFUSE.
type ContinuationResponse struct {
	Action          string  `json:"action"`
	StoryText       string  `json:"story_text"`
	ChatResponse    string  `json:"chat_response"`
	NewChapterTitle *string `json:"new_chapter_title,omitempty"`
}
