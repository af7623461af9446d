package assistant

import (
	"fmt"
	"strings"
)

// Turn is a single exchange in a chatbot transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// MoodPrompt builds the mood-analysis prompt: identify the issue, propose
// three concrete activities, stay positive and actionable.
func MoodPrompt(moodScore int, note string) string {
	return fmt.Sprintf(`A user is feeling %d/10 today.
They wrote the following note about their mood: %q.

Task:
1. Identify the key issue in the note.
2. Suggest 3 activities to improve the user's mood.
3. Ensure your response is clear, actionable, and positive.

Examples:
- If the note says "I got low marks," suggest study tips or stress relief techniques.
- If the note says "I had a fight," suggest conflict resolution strategies.
- If the note says "I'm exhausted," suggest rest and relaxation activities.`, moodScore, note)
}

// FlattenTranscript renders turns as "role: text" lines in chronological order.
func FlattenTranscript(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, t.Role+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}
