package retriever

import (
	"fmt"
	"strings"

	"codeberg.org/taxdesk/server/internal/storage"
)

const systemPrompt = `You are a knowledgeable US tax assistant. You answer questions about
federal income tax rules, deductions, credits, filing requirements and related topics.

Guidelines:
- Prefer the provided document context over your own knowledge when they disagree.
- Be precise about dollar amounts, thresholds and tax years when the context states them.
- If you are not certain, say so rather than guessing.
- You are not a substitute for a licensed tax professional and should say so when the
  question involves someone's specific filing situation.`

const fallbackAnswer = "I apologize, but I'm having trouble generating a response right now. Please try again in a moment."

// assembles retrieved chunks into a single attributed context string,
// stopping before the budget is exceeded. returns the context, the
// number of chunks used and the distinct sources in use order.
func buildContext(results []storage.SearchResult, budget int) (string, int, []string) {
	var builder strings.Builder

	used := 0
	seen := make(map[string]bool)
	var sources []string

	for i, result := range results {
		block := fmt.Sprintf("[Document %d: %s, Chunk %d of %d (Relevance: %.3f)]\n%s\n\n",
			i+1, result.Source, result.ChunkIndex+1, result.TotalChunks, result.Similarity, result.Content)

		if builder.Len()+len(block) > budget {
			break
		}

		builder.WriteString(block)
		used++

		if !seen[result.Source] {
			seen[result.Source] = true
			sources = append(sources, result.Source)
		}
	}

	return strings.TrimSpace(builder.String()), used, sources
}

// the user turn when retrieval produced enough material
func buildGroundedMessage(query, context string) string {
	return fmt.Sprintf(`Answer the question below using the provided document context. Cite specific
figures and rules from the context where they apply.

Context:
%s

Question: %s

Start your answer with exactly this line:
**Source: context + reasoning**`, context, query)
}

// the user turn when retrieval came up short
func buildKnowledgeOnlyMessage(query string) string {
	return fmt.Sprintf(`No relevant document context was found for the question below. Answer from
your general knowledge of US tax rules, and note that the answer is not backed by the
document collection.

Question: %s

Start your answer with exactly this line:
**Source: reasoning**`, query)
}
