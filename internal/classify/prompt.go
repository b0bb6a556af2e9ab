package classify

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/moviecorpus-cli/internal/ai"
	"github.com/KaramelBytes/moviecorpus-cli/internal/utils"
)

const systemPrompt = "You are a genre classifier that outputs ONLY genres as a comma-separated list with no explanation or thinking process."

const userTemplate = `Classify this movie into standard film genres only.
OUTPUT FORMAT: Return ONLY a simple comma-separated list of genres.

Example input: "A tale of an orphan who discovers he's a wizard and goes to magic school"
Example output: Fantasy, Adventure, Family

Input: %s
Output:`

// BuildMessages returns the chat messages for one summary, truncated to tokenLimit
// tokens when tokenLimit > 0.
func BuildMessages(summary string, tokenLimit int) []ai.Message {
	summary = strings.TrimSpace(summary)
	if tokenLimit > 0 {
		summary = utils.TruncateToTokenLimit(summary, tokenLimit)
	}
	return []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(userTemplate, summary)},
	}
}
