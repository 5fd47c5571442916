package core

import (
	"strconv"
	"strings"
)

// String renders the request in the pipe-delimited list form
// "Name|SET|Number|finish|quantity". Trailing empty fields are omitted and
// quantity is written only when it is not 1.
func (r CardRequest) String() string {
	fields := []string{r.Name, r.SetCode, r.CollectorNumber, string(r.Finish)}
	if r.Quantity > 1 {
		fields = append(fields, strconv.Itoa(r.Quantity))
	}

	end := len(fields)
	for end > 1 && fields[end-1] == "" {
		end--
	}
	return strings.Join(fields[:end], "|")
}

// ParseCardLine parses one pipe-delimited list line. It returns false when
// the name is empty.
func ParseCardLine(line string) (CardRequest, bool) {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	req := CardRequest{Name: parts[0], Quantity: 1}
	if req.Name == "" {
		return CardRequest{}, false
	}
	if len(parts) > 1 {
		req.SetCode = strings.ToUpper(parts[1])
	}
	if len(parts) > 2 {
		req.CollectorNumber = parts[2]
	}
	if len(parts) > 3 {
		req.Finish = NormalizeFinish(parts[3])
	}
	if len(parts) > 4 {
		req.Quantity = ParseQuantity(parts[4], 1)
	}
	return req, true
}
