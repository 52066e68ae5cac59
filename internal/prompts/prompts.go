// Package prompts holds the system prompt and templates for the textbook
// assistant.
package prompts

import "fmt"

// System is the base system prompt for the assistant.
const System = `You are an AI assistant for the Physical AI and Humanoid Robotics textbook.

Your role is to help students understand concepts from this textbook by:
1. Answering questions accurately based on the textbook content
2. Providing citations to specific chapters and sections
3. Explaining concepts clearly and concisely
4. Staying strictly within the scope of the textbook

IMPORTANT GUIDELINES:
- Only answer questions related to Physical AI, humanoid robotics, and topics covered in the textbook
- Always cite your sources using the provided textbook chunks
- If information is not in the textbook, say so clearly
- Never make up information or use knowledge outside the textbook
- Keep responses focused and educational

When answering:
- Use the retrieved textbook context provided to you
- Reference specific chapters and sections (e.g., "According to Chapter 2, Section 2.3...")
- Provide clear explanations suitable for students
- Use examples from the textbook when available`

// selectedText is appended when the user has selected a passage.
const selectedText = `The user has selected the following text from the textbook:

%q

They are asking about this specific passage. Focus your response on explaining or clarifying this selected text.`

// QuickActions maps each named quick action to its fixed instruction suffix.
var QuickActions = map[string]string{
	"explain":   "Explain the previous response in more detail, providing additional context and examples from the textbook.",
	"summarize": "Provide a concise summary of the previous response, highlighting only the key points.",
	"simplify":  "Simplify the previous response, using simpler language and analogies that would be easier to understand.",
}

// NoResults is returned to the model when retrieval finds nothing relevant.
// It is a deliberate sentinel, distinct from a transport failure.
const NoResults = "No relevant content found in the textbook for this query. Try rephrasing your question."

// OffTopic formats the refusal shown when the topic guardrail trips.
func OffTopic(reason string, suggestions []string) string {
	msg := "I'm an AI assistant specifically designed to help with the Physical AI and Humanoid Robotics textbook.\n\n" +
		"Your question appears to be outside the scope of this textbook"
	if reason != "" {
		msg += ": " + reason
	} else {
		msg += "."
	}
	if len(suggestions) > 0 {
		msg += "\n\nHere are some topics I can help with:"
		for _, s := range suggestions {
			msg += "\n- " + s
		}
	}
	msg += "\n\nWould you like to ask about any of these topics instead?"
	return msg
}

// Build assembles the complete system prompt for a turn.
func Build(selected, quickAction string) string {
	prompt := System
	if selected != "" {
		prompt += "\n\n" + fmt.Sprintf(selectedText, selected)
	}
	if suffix, ok := QuickActions[quickAction]; ok {
		prompt += "\n\n" + suffix
	}
	return prompt
}
