package formats

import (
	"regexp"
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

func init() {
	registerDeckExport()
}

const finishMarker = `(\*F\*|\*E\*|\[F\]|\[E\]|foil|etched)?`

var (
	deckExportSignature = regexp.MustCompile(`(?i)^\d+x?\s+.+\([A-Z0-9]{3,4}\)`)

	// Tried in order: quantity name (SET) number [marker], quantity name
	// (SET) [marker], quantity name [marker].
	deckLineFull   = regexp.MustCompile(`(?i)^(\d+)x?\s+(.+?)\s+\(([A-Z0-9]{3,4})\)\s+(\d+[a-z]?)\s*` + finishMarker + `$`)
	deckLineSet    = regexp.MustCompile(`(?i)^(\d+)x?\s+(.+?)\s+\(([A-Z0-9]{3,4})\)\s*` + finishMarker + `$`)
	deckLineSimple = regexp.MustCompile(`(?i)^(\d+)x?\s+(.+?)\s*` + finishMarker + `$`)
)

// Deck exports from Archidekt and Moxfield: "4x Lightning Bolt (2XM) 117 *F*".
func registerDeckExport() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:      "deck_export",
			Label:    "Deck Export Text (Archidekt/Moxfield)",
			Priority: priorityDeckExport,
		},
		Detect: func(content []byte) bool {
			return deckExportSignature.MatchString(core.FirstContentLine(content))
		},
		Parse: parseDeckExport,
	})
}

func parseDeckExport(content []byte, warn core.WarnFunc) []core.CardRequest {
	var reqs []core.CardRequest
	for _, line := range core.ContentLines(content) {
		if line.TooLong {
			warn(line.Number, "line too long", line.Text)
			continue
		}
		req, ok := parseDeckLine(line.Text)
		if !ok {
			warn(line.Number, "could not parse line", line.Text)
			continue
		}
		if req.Quantity < 1 {
			warn(line.Number, "zero quantity, skipping", line.Text)
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs
}

func parseDeckLine(text string) (core.CardRequest, bool) {
	if m := deckLineFull.FindStringSubmatch(text); m != nil {
		return core.CardRequest{
			Name:            strings.TrimSpace(m[2]),
			SetCode:         strings.ToUpper(m[3]),
			CollectorNumber: m[4],
			Finish:          core.NormalizeFinish(m[5]),
			Quantity:        core.ParseQuantity(m[1], 0),
		}, true
	}
	if m := deckLineSet.FindStringSubmatch(text); m != nil {
		return core.CardRequest{
			Name:     strings.TrimSpace(m[2]),
			SetCode:  strings.ToUpper(m[3]),
			Finish:   core.NormalizeFinish(m[4]),
			Quantity: core.ParseQuantity(m[1], 0),
		}, true
	}
	if m := deckLineSimple.FindStringSubmatch(text); m != nil {
		return core.CardRequest{
			Name:     strings.TrimSpace(m[2]),
			Finish:   core.NormalizeFinish(m[3]),
			Quantity: core.ParseQuantity(m[1], 0),
		}, true
	}
	return core.CardRequest{}, false
}
