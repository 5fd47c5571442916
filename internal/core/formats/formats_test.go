package formats

import (
	"bytes"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

func TestSelect_DetectionOrder(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantKey string
	}{
		{
			name:    "moxfield header",
			content: "Count,Tradelist Count,Name,Edition,Condition,Language,Foil,Collector Number\n1,0,Sol Ring,c21,Near Mint,English,,263\n",
			wantKey: "moxfield_csv",
		},
		{
			name:    "archidekt header",
			content: "Count,Card Name,Edition,Collector Number,Foil\n1,Sol Ring,C21,263,yes\n",
			wantKey: "archidekt_csv",
		},
		{
			name:    "moxfield wins over archidekt when both signatures present",
			content: "Count,Tradelist Count,Card Name,Edition,Collector Number\n",
			wantKey: "moxfield_csv",
		},
		{
			name:    "deck export after comments",
			content: "# my deck\n\n4x Lightning Bolt (2XM) 117\n",
			wantKey: "deck_export",
		},
		{
			name:    "generic csv",
			content: "Quantity,Name,Set\n2,Sol Ring,C21\n",
			wantKey: "generic_csv",
		},
		{
			name:    "generic csv quoted header",
			content: "\"qty\",\"name\"\n2,Sol Ring\n",
			wantKey: "generic_csv",
		},
		{
			name:    "pipe text",
			content: "Sol Ring|C21|263\n",
			wantKey: "standard_text",
		},
		{
			name:    "plain names fall back to standard",
			content: "Sol Ring\nLightning Bolt\n",
			wantKey: "standard_text",
		},
		{
			name:    "deck line without set is not deck export",
			content: "4 Lightning Bolt\n",
			wantKey: "standard_text",
		},
		{
			name:    "empty file",
			content: "",
			wantKey: "standard_text",
		},
		{
			name:    "binary garbage",
			content: "\x00\x01\xff\xfe,,,\n\x02",
			wantKey: "standard_text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.Select([]byte(tt.content))
			assert.Equal(t, tt.wantKey, got.Info.Key)
		})
	}
}

func TestAll_Order(t *testing.T) {
	var keys []string
	for _, def := range core.All() {
		keys = append(keys, def.Info.Key)
	}
	want := []string{"moxfield_csv", "archidekt_csv", "deck_export", "generic_csv", "standard_text"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("detection order mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_TotalOverRandomContent(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		content := []byte(faker.Sentence(faker.Number(1, 20)))
		if i%3 == 0 {
			content = append(content, '|')
		}
		if i%5 == 0 {
			content = make([]byte, faker.Number(0, 64))
			for j := range content {
				content[j] = byte(faker.Number(0, 255))
			}
		}
		require.NotPanics(t, func() {
			res := core.Parse("random.txt", content)
			require.NotEmpty(t, res.Format.Key)
		})
	}
}

func TestMoxfieldCSV(t *testing.T) {
	content := "Count,Tradelist Count,Name,Edition,Condition,Language,Foil,Tags,Last Modified,Collector Number\n" +
		"4,0,Lightning Bolt,2xm,Near Mint,English,,,2024-01-01,117\n" +
		"1,0,Sol Ring,c21,Near Mint,English,foil,,2024-01-01,263\n" +
		"1,0,Sol Ring,cmm,Near Mint,English,etched,,2024-01-01,410\n" +
		"1,0,Counterspell,mh2,Near Mint,English,yes,,2024-01-01,267\n" +
		"0,0,Opt,xln,Near Mint,English,,,2024-01-01,65\n" +
		"1,0,,xln,Near Mint,English,,,2024-01-01,66\n"

	res := core.Parse("moxfield.csv", []byte(content))
	require.Equal(t, "moxfield_csv", res.Format.Key)

	want := []core.CardRequest{
		{Name: "Lightning Bolt", SetCode: "2XM", CollectorNumber: "117", Quantity: 4},
		{Name: "Sol Ring", SetCode: "C21", CollectorNumber: "263", Finish: core.FinishFoil, Quantity: 1},
		{Name: "Sol Ring", SetCode: "CMM", CollectorNumber: "410", Finish: core.FinishEtched, Quantity: 1},
		// "yes" is not part of the Moxfield vocabulary
		{Name: "Counterspell", SetCode: "MH2", CollectorNumber: "267", Quantity: 1},
	}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 6, res.Warnings[0].LineNumber)
}

func TestArchidektCSV(t *testing.T) {
	content := "Quantity,Card Name,Edition,Collector Number,Foil\n" +
		"2,Sol Ring,c21,263,Yes\n" +
		"1,Arcane Signet,c21,,true\n" +
		"1,Command Tower,c21,,1\n" +
		"1,Swords to Plowshares,sta,10,etched\n" +
		"x,Opt,xln,65,\n"

	res := core.Parse("archidekt.csv", []byte(content))
	require.Equal(t, "archidekt_csv", res.Format.Key)

	want := []core.CardRequest{
		{Name: "Sol Ring", SetCode: "C21", CollectorNumber: "263", Finish: core.FinishFoil, Quantity: 2},
		{Name: "Arcane Signet", SetCode: "C21", Finish: core.FinishFoil, Quantity: 1},
		{Name: "Command Tower", SetCode: "C21", Finish: core.FinishFoil, Quantity: 1},
		// the flag vocabulary has no etched
		{Name: "Swords to Plowshares", SetCode: "STA", CollectorNumber: "10", Quantity: 1},
		{Name: "Opt", SetCode: "XLN", CollectorNumber: "65", Quantity: 1},
	}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Reason, "invalid count")
}

func TestDeckExport(t *testing.T) {
	content := `# Commander
1 Sol Ring (C21) 263
4x Lightning Bolt (2xm) 117 *F*
1 Swords to Plowshares (STA) 10a [E]
2 Counterspell (MH2)
1 Opt (XLN) foil
3 Island
1 Brainstorm etched
this line is junk
`
	res := core.Parse("deck.txt", []byte(content))
	require.Equal(t, "deck_export", res.Format.Key)

	want := []core.CardRequest{
		{Name: "Sol Ring", SetCode: "C21", CollectorNumber: "263", Quantity: 1},
		{Name: "Lightning Bolt", SetCode: "2XM", CollectorNumber: "117", Finish: core.FinishFoil, Quantity: 4},
		{Name: "Swords to Plowshares", SetCode: "STA", CollectorNumber: "10a", Finish: core.FinishEtched, Quantity: 1},
		{Name: "Counterspell", SetCode: "MH2", Quantity: 2},
		{Name: "Opt", SetCode: "XLN", Finish: core.FinishFoil, Quantity: 1},
		{Name: "Island", Quantity: 3},
		{Name: "Brainstorm", Finish: core.FinishEtched, Quantity: 1},
	}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 9, res.Warnings[0].LineNumber)
	assert.Equal(t, "this line is junk", res.Warnings[0].Data)
}

func TestGenericCSV(t *testing.T) {
	content := "count,name,set,number,finish\n" +
		"abc,Sol Ring\n" +
		"3,Lightning Bolt,2xm,117,foil\n" +
		"1,Swords to Plowshares,sta,10,*E*\n" +
		"lonely\n" +
		"2,   \n" +
		"0,Opt,xln\n"

	res := core.Parse("generic.csv", []byte(content))
	require.Equal(t, "generic_csv", res.Format.Key)

	want := []core.CardRequest{
		{Name: "Sol Ring", Quantity: 1},
		{Name: "Lightning Bolt", SetCode: "2XM", CollectorNumber: "117", Finish: core.FinishFoil, Quantity: 3},
		{Name: "Swords to Plowshares", SetCode: "STA", CollectorNumber: "10", Finish: core.FinishEtched, Quantity: 1},
	}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestStandardText(t *testing.T) {
	content := "# pipes\nSol Ring\nLightning Bolt|2xm\n\nCounterspell|MH2|267|foil\nOpt|xln|65|[E]|4\n|C21\n"

	res := core.Parse("list.txt", []byte(content))
	require.Equal(t, "standard_text", res.Format.Key)

	want := []core.CardRequest{
		{Name: "Sol Ring", Quantity: 1},
		{Name: "Lightning Bolt", SetCode: "2XM", Quantity: 1},
		{Name: "Counterspell", SetCode: "MH2", CollectorNumber: "267", Finish: core.FinishFoil, Quantity: 1},
		{Name: "Opt", SetCode: "XLN", CollectorNumber: "65", Finish: core.FinishEtched, Quantity: 4},
	}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 7, res.Warnings[0].LineNumber)
}

func TestStandardText_Empty(t *testing.T) {
	res := core.Parse("empty.txt", nil)
	assert.Equal(t, "standard_text", res.Format.Key)
	assert.Empty(t, res.Requests)
	assert.Empty(t, res.Warnings)
}

func TestPipeRoundTrip(t *testing.T) {
	faker := gofakeit.New(7)
	finishes := []core.Finish{core.FinishUnset, core.FinishNonfoil, core.FinishFoil, core.FinishEtched}

	for i := 0; i < 100; i++ {
		req := core.CardRequest{
			Name:     faker.Adjective() + " " + faker.Noun(),
			Finish:   finishes[i%len(finishes)],
			Quantity: faker.Number(1, 4),
		}
		if i%2 == 0 {
			req.SetCode = faker.RandomString([]string{"MH3", "C21", "2XM", "OTJ", "PLST"})
		}
		if i%3 == 0 {
			req.CollectorNumber = faker.Numerify("###")
		}

		line := req.String()
		res := core.Parse("roundtrip.txt", []byte(line+"\n"))
		require.Len(t, res.Requests, 1, "line %q", line)
		if diff := cmp.Diff(req, res.Requests[0]); diff != "" {
			t.Errorf("round trip of %q mismatch (-want +got):\n%s", line, diff)
		}
	}
}

func TestXLSXInput(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Count", "Card Name", "Edition", "Collector Number", "Foil"},
		{2, "Sol Ring", "c21", "263", "yes"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	content, err := core.ReadInput(&buf)
	require.NoError(t, err)

	res := core.Parse("list.xlsx", content)
	require.Equal(t, "archidekt_csv", res.Format.Key)
	want := []core.CardRequest{
		{Name: "Sol Ring", SetCode: "C21", CollectorNumber: "263", Finish: core.FinishFoil, Quantity: 2},
	}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestBOMPrefixedCSV(t *testing.T) {
	raw := append([]byte("\xEF\xBB\xBF"), []byte("Qty,Name\n1,Sol Ring\n")...)
	content, err := core.ReadInput(bytes.NewReader(raw))
	require.NoError(t, err)

	res := core.Parse("bom.csv", content)
	assert.Equal(t, "generic_csv", res.Format.Key)
	require.Len(t, res.Requests, 1)
	assert.Equal(t, "Sol Ring", res.Requests[0].Name)
}

func TestStandardText_OverlongLineIsReported(t *testing.T) {
	long := bytes.Repeat([]byte("x"), core.MaxLineLength+100*1024)
	content := append([]byte("Sol Ring|C21\n"), long...)
	content = append(content, []byte("\nLightning Bolt|2XM\n")...)

	res := core.Parse("list.txt", content)

	want := []core.CardRequest{
		{Name: "Sol Ring", SetCode: "C21", Quantity: 1},
		{Name: "Lightning Bolt", SetCode: "2XM", Quantity: 1},
	}
	if diff := cmp.Diff(want, res.Requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 2, res.Warnings[0].LineNumber)
	assert.Equal(t, "line too long", res.Warnings[0].Reason)
}

func TestDeckExport_OverlongLineIsReported(t *testing.T) {
	long := bytes.Repeat([]byte("y"), core.MaxLineLength+1)
	content := append([]byte("4x Lightning Bolt (2XM) 117\n"), long...)
	content = append(content, []byte("\n1 Counterspell (MH2)\n")...)

	res := core.Parse("deck.txt", content)

	require.Equal(t, "deck_export", res.Format.Key)
	require.Len(t, res.Requests, 2)
	assert.Equal(t, "Counterspell", res.Requests[1].Name)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 2, res.Warnings[0].LineNumber)
}
