package usecases

import (
	"strconv"
	"strings"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// ApologyMessage is returned when composing a reply fails unexpectedly.
const ApologyMessage = "I apologize, but I encountered an error while processing your request. " +
	"Please try rephrasing your question or contact support if the issue persists."

// NoMatchMessage is returned when no record is similar enough to the query.
const NoMatchMessage = "## 🤔 I couldn't find a specific match for your query.\n\n" +
	"**Here are some suggestions:**\n" +
	"• Try using the generic name of the medicine\n" +
	"• Check the spelling of the medicine name\n" +
	"• Describe your symptoms instead of the medicine name\n" +
	"• Ask about the condition you want to treat\n" +
	"\n**You can ask me about:**\n" +
	"• Specific medicine names (e.g., 'Tell me about Aspirin')\n" +
	"• Symptoms (e.g., 'Medicine for headache')\n" +
	"• Conditions (e.g., 'Treatment for diabetes')\n" +
	"• Side effects (e.g., 'Side effects of ibuprofen')\n"

// Composer renders matches into the reply markup.
type Composer struct {
	previewLen    int
	altPreviewLen int
}

// NewComposer creates a Composer. Non-positive lengths fall back to 200 and 100.
func NewComposer(previewLen, altPreviewLen int) *Composer {
	if previewLen <= 0 {
		previewLen = 200
	}
	if altPreviewLen <= 0 {
		altPreviewLen = 100
	}
	return &Composer{previewLen: previewLen, altPreviewLen: altPreviewLen}
}

// Compose renders the top match, the enrichment section and the alternatives.
// matches must not be empty.
func (c *Composer) Compose(intent entities.Intent, matches []entities.QueryMatch, enrichment *entities.Enrichment) string {
	top := matches[0]
	rec := top.Record
	general := intent == entities.IntentGeneral

	var sb strings.Builder
	sb.WriteString("## 💊 " + rec.Name + "\n\n")

	if general || intent == entities.IntentComposition {
		sb.WriteString("**🧪 Composition:** " + rec.Composition + "\n\n")
	}
	if general || intent == entities.IntentUsage {
		sb.WriteString("**🎯 Uses:** " + rec.Uses + "\n\n")
	}
	if general || intent == entities.IntentSideEffects {
		sb.WriteString("**⚠️ Side Effects:** " + rec.SideEffects + "\n\n")
	}
	if general || intent == entities.IntentStorage {
		sb.WriteString("**📦 Storage:** " + rec.StorageCondition +
			" at " + rec.StorageTemperature + "°C, " +
			rec.StorageHumidity + "% humidity\n\n")
	}
	sb.WriteString("**🏭 Manufacturer:** " + rec.Manufacturer + "\n\n")

	if enrichment.HasData() {
		sb.WriteString("### 🏛️ FDA Information:\n")
		c.field(&sb, "**Indications:** ", enrichment.Indications)
		c.field(&sb, "**⚠️ FDA Warnings:** ", enrichment.Warnings)
		c.field(&sb, "**💉 Dosage:** ", enrichment.Dosage)
		c.field(&sb, "**🚫 Contraindications:** ", enrichment.Contraindications)
	}

	sb.WriteString("*Confidence: ")
	sb.WriteString(strconv.Itoa(top.Confidence()))
	sb.WriteString("%*")

	if len(matches) > 1 {
		sb.WriteString("\n\n### 🔍 You might also be interested in:\n")
		for _, m := range matches[1:] {
			sb.WriteString("• **" + m.Record.Name + "** - " + preview(m.Record.Uses, c.altPreviewLen) + "\n")
		}
	}
	return sb.String()
}

func (c *Composer) field(sb *strings.Builder, label, value string) {
	if !entities.Available(value) {
		return
	}
	sb.WriteString(label + preview(value, c.previewLen) + "\n\n")
}

// preview cuts s to at most n runes, marking the cut with an ellipsis.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:n]), " ") + "..."
}
