package formats

import (
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

func init() {
	registerArchidektCSV()
}

// Archidekt exports use "Card Name" and "Edition"; Foil is a yes/no flag.
func registerArchidektCSV() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:      "archidekt_csv",
			Label:    "Archidekt CSV",
			Priority: priorityArchidekt,
		},
		Detect: func(content []byte) bool {
			h := headerLine(content)
			return strings.Contains(h, "card name") && strings.Contains(h, "edition")
		},
		Parse: parseVendorCSV(vendorColumns{
			Count:  []string{"Count", "Quantity"},
			Name:   []string{"Card Name", "Name"},
			Set:    []string{"Edition"},
			Number: []string{"Collector Number"},
			Foil:   []string{"Foil"},
			Finish: core.ParseFinishFlag,
		}),
	})
}
