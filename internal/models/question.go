// internal/models/question.go
package models

// QuestionType tags the input affordance a question should render with.
// Swipe yes/no and grid multi-select are equivalent decision points exposed
// through different affordances; the engine only emits the type.
type QuestionType string

const (
	QuestionSingleSelect QuestionType = "single_select"
	QuestionMultiSelect  QuestionType = "multi_select"
	QuestionYesNo        QuestionType = "yes_no"
	QuestionFreeText     QuestionType = "free_text"
	QuestionPhotoLabel   QuestionType = "photo_label"
)

// QuestionOption is one candidate answer. PreChecked marks options inferred
// with high confidence from profile data, rendered distinguishably from
// operator-made choices.
type QuestionOption struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	PreChecked bool   `json:"preChecked,omitempty"`
}

// Question is one unit of the clarification protocol. IDs are stable across
// runs so collected answers can be replayed into the normalizer.
type Question struct {
	ID       string           `json:"id"`
	Prompt   string           `json:"prompt"`
	Type     QuestionType     `json:"type"`
	Category string           `json:"category"`
	Field    string           `json:"field"`
	Options  []QuestionOption `json:"options,omitempty"`
	Priority int              `json:"priority"`
}
