package prompt

import (
	"fmt"
	"strings"
)

// OutputSchema is the JSON shape the drafting model must reply with
const OutputSchema = `{
  "classification": "recommendation" | "chat" | "off_topic",
  "thought": "Short reasoning in English. Refer to the conversation history when needed.",
  "response_text": "Natural, friendly reply to the user in English.",
  "recommended_products": []
}`

// TurnFacts are the per-turn signals injected into the system instruction
type TurnFacts struct {
	Context          string
	ImageDescription string
	IsInDomain       bool
	Intent           string
}

// SystemBuilder builds the drafting system instruction
type SystemBuilder struct {
	facts TurnFacts
}

func NewSystemBuilder(facts TurnFacts) *SystemBuilder {
	return &SystemBuilder{facts: facts}
}

func (b *SystemBuilder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeReferenceMaterial(&prompt)
	b.writeTurnSignals(&prompt)
	b.writeGuidelines(&prompt)
	b.writeOutputContract(&prompt)

	return prompt.String()
}

func (b *SystemBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are SoleMate, a friendly footwear expert helping the user find shoes.\n")
	prompt.WriteString("You only recommend products that appear in the catalog context below.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *SystemBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<catalog_context>\n")
	prompt.WriteString(b.facts.Context)
	prompt.WriteString("\n</catalog_context>\n\n")
}

func (b *SystemBuilder) writeTurnSignals(prompt *strings.Builder) {
	prompt.WriteString("<turn_signals>\n")
	if b.facts.ImageDescription != "" {
		prompt.WriteString(fmt.Sprintf("Image description: %s\n", b.facts.ImageDescription))
	} else {
		prompt.WriteString("Image description: none\n")
	}
	prompt.WriteString(fmt.Sprintf("In domain (footwear): %t\n", b.facts.IsInDomain))
	prompt.WriteString(fmt.Sprintf("Intent: %s\n", b.facts.Intent))
	prompt.WriteString("</turn_signals>\n\n")
}

func (b *SystemBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("- If the turn is not in domain, classify it as \"off_topic\" and politely steer back to footwear.\n")
	prompt.WriteString("- If the user is greeting or chatting, classify it as \"chat\" and answer naturally.\n")
	prompt.WriteString("- If the catalog context lists products that fit the request, classify it as \"recommendation\" and mention the best matches by name, brand and price.\n")
	prompt.WriteString("- If the catalog context is empty or nothing fits, classify it as \"chat\" and say so honestly.\n")
	prompt.WriteString("- Never invent products, prices or features.\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *SystemBuilder) writeOutputContract(prompt *strings.Builder) {
	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Reply with ONLY one JSON object with this structure. No prose, no markdown fences.\n")
	prompt.WriteString(OutputSchema)
	prompt.WriteString("\n\"recommended_products\" is always present; use an empty list when there is nothing to recommend.\n")
	prompt.WriteString("</output_format>\n")
}
