package formats

import (
	"github.com/JonMunkholm/mtgprice/internal/core"
)

func init() {
	registerStandardText()
}

// Standard text is one card per line: Name[|SET[|Number[|finish[|quantity]]]].
// It is the fallback grammar and claims any content, including empty files.
func registerStandardText() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:      "standard_text",
			Label:    "Standard Text Format",
			Priority: priorityStandard,
			Fallback: true,
		},
		Detect: func([]byte) bool { return true },
		Parse:  parseStandardText,
	})
}

func parseStandardText(content []byte, warn core.WarnFunc) []core.CardRequest {
	var reqs []core.CardRequest
	for _, line := range core.ContentLines(content) {
		if line.TooLong {
			warn(line.Number, "line too long", line.Text)
			continue
		}
		req, ok := core.ParseCardLine(line.Text)
		if !ok {
			warn(line.Number, "missing card name", line.Text)
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs
}
