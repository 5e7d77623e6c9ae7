package panel

// MessageType names the messages exchanged between the panel UI and the
// controller.
type MessageType string

const (
	// inbound
	AskQuestion  MessageType = "askQuestion"
	AnalyzeCode  MessageType = "analyzeCode"
	DocumentCode MessageType = "documentCode"
	ExplainCode  MessageType = "explainCode"

	// outbound
	AddRecentQuestion MessageType = "addRecentQuestion"
)

type Message struct {
	Type  MessageType `json:"type"`
	Value string      `json:"value,omitempty"`
}

// RecentCapacity bounds the recent-questions list
const RecentCapacity = 10

// RecentQuestions is most-recent-first and never longer than
// RecentCapacity. It is owned by the UI loop and not safe for concurrent use.
type RecentQuestions struct {
	items []string
}

func (r *RecentQuestions) Add(question string) {
	r.items = append([]string{question}, r.items...)
	if len(r.items) > RecentCapacity {
		r.items = r.items[:RecentCapacity]
	}
}

func (r *RecentQuestions) Items() []string {
	return append([]string(nil), r.items...)
}

func (r *RecentQuestions) Len() int {
	return len(r.items)
}
