package domain

type ChatSender string

const (
	SenderUser      ChatSender = "user"
	SenderAssistant ChatSender = "assistant"
)

type ChatMessage struct {
	Sender ChatSender `json:"sender"`
	Text   string     `json:"text"`
}
