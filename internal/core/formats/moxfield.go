package formats

import (
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

func init() {
	registerMoxfieldCSV()
}

// Moxfield collection exports carry a "Tradelist Count" column and store
// the finish name ("foil", "etched") in the Foil column.
func registerMoxfieldCSV() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:      "moxfield_csv",
			Label:    "Moxfield CSV",
			Priority: priorityMoxfield,
		},
		Detect: func(content []byte) bool {
			h := headerLine(content)
			return strings.Contains(h, "tradelist count") && strings.Contains(h, "collector number")
		},
		Parse: parseVendorCSV(vendorColumns{
			Count:  []string{"Count"},
			Name:   []string{"Name"},
			Set:    []string{"Edition"},
			Number: []string{"Collector Number"},
			Foil:   []string{"Foil"},
			Finish: core.ParseFinishName,
		}),
	})
}
