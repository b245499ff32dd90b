package qa

import (
	"fmt"
	"strings"

	"github.com/poiesic/vidqa/core"
	"github.com/tmc/langchaingo/prompts"
)

// NotFoundAnswer is the reply the model is told to give when the
// transcript does not contain the answer.
const NotFoundAnswer = "I couldn't find this information in the video"

const answerTemplate = `You are an expert at answering questions about YouTube videos.

Video Transcript Context:
{{.context}}

Question: {{.question}}

Provide a detailed answer using only the transcript.
If the answer isn't in the transcript, say "` + NotFoundAnswer + `".
{{- if .timestamps}}
Include relevant timestamps when possible in [HH:MM:SS] format.
{{- end}}
Answer:`

func newAnswerPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(answerTemplate, []string{"context", "question", "timestamps"})
}

// FormatContext joins the retrieved chunks in retrieval order, separated by
// a blank line. With labels set, each block starts with the chunk's time
// range when the chunk has one.
func FormatContext(results []*core.SearchResult, labels bool) string {
	blocks := make([]string, 0, len(results))
	for _, res := range results {
		text := res.Chunk.Text
		if labels && res.Chunk.HasTiming {
			text = fmt.Sprintf("[%s - %s] %s",
				core.FormatTimestamp(res.Chunk.StartTime), core.FormatTimestamp(res.Chunk.EndTime), text)
		}
		blocks = append(blocks, text)
	}
	return strings.Join(blocks, "\n\n")
}
