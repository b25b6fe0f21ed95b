package assistant

import (
	"github.com/aivahomes/realty-ai-platform/internal/conversation"
)

// SystemPersona is the fixed system instruction injected into every chat
// completion request.
const SystemPersona = `You are AIVA, the virtual assistant for a residential real-estate brokerage. You help visitors explore listings, understand the buying and selling process, and connect with a licensed agent.

Capabilities: you can discuss listings and neighborhoods, compare properties, walk through financing concepts like mortgages, down payments, and closing costs, and offer to schedule a call with an agent. You do not give legal advice and you never invent listing details you were not given.

Response guidelines:
- Keep answers concise: 2-4 short paragraphs.
- Format prices with a dollar sign and thousands separators, e.g. $450,000.
- Always end with an invitation to a concrete next step, such as scheduling a showing or requesting a call from an agent.`

// historyWindow bounds how many prior turns are injected into a completion
// request. Older history stays persisted but is not sent upstream.
const historyWindow = 6

// BuildChatMessages assembles the ordered message list for a chat turn:
// system persona, up to the 6 most recent history turns in chronological
// order, then the current user message. Stored user turns map to the user
// role; any other stored sender maps to the assistant role.
func BuildChatMessages(history []conversation.Message, userMessage string) []ChatMessage {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: ChatRoleSystem, Content: SystemPersona})
	for _, m := range history {
		role := ChatRoleAssistant
		if m.Role == conversation.RoleUser {
			role = ChatRoleUser
		}
		messages = append(messages, ChatMessage{Role: role, Content: m.Content})
	}
	return append(messages, ChatMessage{Role: ChatRoleUser, Content: userMessage})
}
