package posts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePostInput_MarshalJSON(t *testing.T) {
	title := "New title"
	body := ""

	tests := []struct {
		name  string
		input UpdatePostInput
		want  string
	}{
		{name: "nothing set", input: UpdatePostInput{}, want: `{}`},
		{name: "title only", input: UpdatePostInput{Title: &title}, want: `{"title":"New title"}`},
		{name: "empty body is sent", input: UpdatePostInput{Body: &body}, want: `{"body":""}`},
		{name: "empty tags clear", input: UpdatePostInput{Tags: []string{}}, want: `{"tags":[]}`},
		{name: "tags", input: UpdatePostInput{Title: &title, Tags: []string{"a", "b"}}, want: `{"title":"New title","tags":["a","b"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.input)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestUpdatePostInput_ClearTagsSurvivesWire(t *testing.T) {
	data, err := json.Marshal(UpdatePostInput{Tags: []string{}})
	require.NoError(t, err)

	var got UpdatePostInput
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
	assert.False(t, got.IsEmpty())

	// Pointer receivers see the same encoding
	data, err = json.Marshal(&UpdatePostInput{Tags: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(data))
}
