package s2_sentiment

import "fmt"

const systemPrompt = "You are a financial analyst. You classify the tone of earnings reports and answer with JSON only."

const promptTemplate = `Analyze the sentiment and tone of this earnings report. Return ONLY a JSON object with these fields:
{
  "overall_sentiment": "positive" | "negative" | "neutral",
  "confidence": 0.0-1.0,
  "management_tone": "optimistic" | "optimistic_cautious" | "cautious_pessimistic" | "neutral",
  "key_positive_indicators": ["..."],
  "key_negative_indicators": ["..."],
  "risk_factors_identified": ["..."]
}

Report excerpt:
%s

Return only the JSON object, without markdown or explanation.`

// BuildPrompt embeds the first ExcerptRunes characters of text
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, excerpt(text, ExcerptRunes))
}

func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
