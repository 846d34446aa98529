package formatting

import (
	"fmt"
	"strings"

	"github.com/nijaru/vidpost/models"
)

const transcriptPlaceholder = "{{transcript}}"

const plainTextRules = `Formatting rules:
- Output plain text only. No Markdown, no asterisks, no pound signs, no HTML.
- Do not add a preamble or a closing note about what you did.
- Stay faithful to the transcript. Do not invent facts, names or numbers.`

var templates = map[models.Platform]string{
	models.PlatformLinkedIn: `Convert this transcript into a LinkedIn post. Use this style:
- Start with a strong hook in the first line
- Short paragraphs of one or two sentences, separated by blank lines
- Use simple dashes for lists where a list helps
- Professional but authentic and conversational tone
- Between 120 and 250 words
- End with an engaging question

` + plainTextRules + `

Transcript: ` + transcriptPlaceholder,

	models.PlatformTwitter: `Convert this transcript into a Twitter thread. Use this style:
- Punchy and direct, start strong
- Between 3 and 8 tweets
- Every tweet must be under 280 characters including its number
- Number each tweet as 1/, 2/, 3/ and separate tweets with a blank line
- No hashtags unless absolutely necessary

` + plainTextRules + `

Transcript: ` + transcriptPlaceholder,

	models.PlatformBlog: `Convert this transcript into a blog post. Use this style:
- A title on the first line, then a blank line
- Three to five sections, each introduced by a short heading on its own line
- Medium-length paragraphs that expand on the ideas in the transcript
- Professional but conversational, add context where needed, no fluff
- Between 500 and 900 words

` + plainTextRules + `

Transcript: ` + transcriptPlaceholder,
}

// Prompt builds the generation instruction for platform with the transcript
// embedded verbatim.
func Prompt(platform models.Platform, transcript string) (string, error) {
	tmpl, ok := templates[platform]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownPlatform, string(platform))
	}
	return strings.Replace(tmpl, transcriptPlaceholder, transcript, 1), nil
}
