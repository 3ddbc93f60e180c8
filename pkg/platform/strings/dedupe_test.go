package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "empty", raw: "", expected: nil},
		{name: "blank", raw: "   ", expected: nil},
		{name: "single", raw: "localhost:9092", expected: []string{"localhost:9092"}},
		{
			name:     "trims, dedupes, drops empties",
			raw:      " kafka-1:9092, kafka-2:9092,,kafka-1:9092 ",
			expected: []string{"kafka-1:9092", "kafka-2:9092"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.raw, ","))
		})
	}
}

func TestDedupeAndTrim(t *testing.T) {
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{}))
	assert.Equal(t, []string{"Foo", "foo"}, DedupeAndTrim([]string{" Foo", "foo ", "Foo", ""}))
}
