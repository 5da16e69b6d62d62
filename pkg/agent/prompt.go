package agent

import (
	"fmt"
	"strings"

	"notionbridge/pkg/api"
)

// degradedReply is the fixed fallback sent when the loop cap is reached
// before the model produces a final answer.
const degradedReply = "죄송합니다. 처리 중 문제가 발생했습니다."

const basePrompt = "You are a helpful assistant with access to Notion tools and backend API. " +
	"When user asks about their Notion content, use the available tools to search and retrieve information. " +
	"If the user asks to update or save Notion data, you should also call the backend API. " +
	"Always respond in Korean."

// buildSystemPrompt assembles the per-request system instruction. When a
// user id is present, authentication rules are appended so the model carries
// the right identity (and session cookies, when supplied) into every
// user-scoped tool call.
func buildSystemPrompt(user api.UserContext) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)

	if user.UserID == "" {
		sb.WriteString("\nCurrent user ID: Not provided")
		return sb.String()
	}

	authArgs := fmt.Sprintf("user_id=%q", user.UserID)
	if user.Cookies != "" {
		authArgs += fmt.Sprintf(", cookies=%q", user.Cookies)
	}

	fmt.Fprintf(&sb, "\nCurrent user ID: %s", user.UserID)
	fmt.Fprintf(&sb, "\nIMPORTANT AUTHENTICATION RULES:\n"+
		"- User ID: %s\n"+
		"- When calling ANY user-specific tool, you MUST include these exact parameters: %s\n"+
		"- Use get_user_info before any Notion operations that depend on the user's authorization.\n"+
		"- The backend API returns lowercase fields: 'access_token', 'refresh_token', etc.\n"+
		"- If you get an access_token from the backend, the user HAS authorized Notion access.\n"+
		"- Missing authentication parameters are filled in automatically, but include them anyway.",
		user.UserID, authArgs)

	return sb.String()
}
