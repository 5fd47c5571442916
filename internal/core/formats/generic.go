package formats

import (
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

func init() {
	registerGenericCSV()
}

var genericCountHeaders = map[string]bool{
	"count":    true,
	"quantity": true,
	"qty":      true,
	"amount":   true,
}

// Generic CSV is positional: quantity, name, set, number, finish. Only the
// first header cell is inspected.
func registerGenericCSV() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:      "generic_csv",
			Label:    "Generic CSV",
			Priority: priorityGenericCSV,
		},
		Detect: func(content []byte) bool {
			first, _, found := strings.Cut(headerLine(content), ",")
			return found && genericCountHeaders[core.CleanCell(first)]
		},
		Parse: parseGenericCSV,
	})
}

func parseGenericCSV(content []byte, warn core.WarnFunc) []core.CardRequest {
	rows := readCSV(content, warn)
	if len(rows) == 0 {
		return nil
	}

	var reqs []core.CardRequest
	for _, row := range rows[1:] {
		f := row.fields
		if len(f) < 2 {
			continue
		}
		name := strings.TrimSpace(f[1])
		if name == "" {
			continue
		}

		qty := 1
		if isDigits(strings.TrimSpace(f[0])) {
			qty = core.ParseQuantity(f[0], 0)
			if qty == 0 {
				warn(row.line, "zero quantity, skipping", strings.Join(f, ","))
				continue
			}
		}

		req := core.CardRequest{Name: name, Quantity: qty}
		if len(f) > 2 {
			req.SetCode = strings.ToUpper(strings.TrimSpace(f[2]))
		}
		if len(f) > 3 {
			req.CollectorNumber = strings.TrimSpace(f[3])
		}
		if len(f) > 4 {
			req.Finish = core.NormalizeFinish(f[4])
		}
		reqs = append(reqs, req)
	}
	return reqs
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
