package complaint

import "strings"

// DefaultCategory is used when no keyword matches.
const DefaultCategory = "General"

// Ordered: more specific keywords come before broader ones.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"street light", "Electricity"},
	{"electric", "Electricity"},
	{"power", "Electricity"},
	{"pothole", "Roads"},
	{"road", "Roads"},
	{"garbage", "Sanitation"},
	{"drain", "Sanitation"},
	{"sewage", "Sanitation"},
	{"pipe", "Water"},
	{"water", "Water"},
	{"construction", "Urban Planning"},
	{"noise", "Environment"},
	{"pollution", "Environment"},
	{"traffic", "Traffic"},
	{"signal", "Traffic"},
	{"park", "Parks"},
}

// PredictCategory assigns a department category from the complaint text
// when the citizen did not pick one.
func PredictCategory(text string) string {
	t := strings.ToLower(text)
	for _, kw := range categoryKeywords {
		if strings.Contains(t, kw.keyword) {
			return kw.category
		}
	}
	return DefaultCategory
}
