package complaint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"janmat/backend/internal/complaint"
)

func TestPredictCategory(t *testing.T) {
	cases := []struct {
		text     string
		expected string
	}{
		{"Pothole on the main road", "Roads"},
		{"Street light not working since Monday", "Electricity"},
		{"Garbage not collected in sector 4", "Sanitation"},
		{"Water supply interrupted", "Water"},
		{"Broken pipe leaking near the school", "Water"},
		{"Illegal construction next door", "Urban Planning"},
		{"Noise pollution from the factory", "Environment"},
		{"Traffic signal broken at the crossing", "Traffic"},
		{"Park maintenance needed", "Parks"},
		{"Something else entirely", complaint.DefaultCategory},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, complaint.PredictCategory(tc.text), "text: %s", tc.text)
	}
}
