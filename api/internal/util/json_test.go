package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"upper-case tag", "```JSON {\"a\":1}```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"no fence", "  {\"a\":1}  ", `{"a":1}`},
		{"fence in the middle", "Here you go:\n```json\n{\"a\":1}\n```\nEnjoy", "Here you go:\n{\"a\":1}\nEnjoy"},
		{"fence inside a string value", "{\"notes\":\"run ```bash then\"}", `{"notes":"run bash then"}`},
		{"other tag is kept", "```js\n{\"a\":1}\n```", "js\n{\"a\":1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestObjectSpan(t *testing.T) {
	assert.Equal(t, `{"a":{"b":1}}`, ObjectSpan(`Sure! {"a":{"b":1}} hope it helps`))
	assert.Equal(t, "no braces", ObjectSpan("no braces"))
	assert.Equal(t, "} reversed {", ObjectSpan("} reversed {"))
}

func TestRepair(t *testing.T) {
	in := `{"perfumeName":'X',"results":[{"store":"S","price_ars":100,},]}`
	assert.Equal(t, `{"perfumeName":"X","results":[{"store":"S","price_ars":100}]}`, Repair(in))

	assert.Equal(t, `{"note":"say \"hi\""}`, Repair(`{"note": 'say "hi"'}`))
}

func TestExtractJSON_Fenced(t *testing.T) {
	ex, err := ExtractJSON("```json\n{\"perfumeName\":\"X\",\"brand\":\"Y\",\"results\":[]}\n```")
	require.NoError(t, err)
	assert.Equal(t, StageStrict, ex.Stage)
	assert.False(t, ex.Repaired())
	assert.JSONEq(t, `{"perfumeName":"X","brand":"Y","results":[]}`, string(ex.Value))
}

func TestExtractJSON_Commentary(t *testing.T) {
	ex, err := ExtractJSON("Claro, aquí está:\n{\"perfumeName\":\"X\",\"results\":[]}\nSaludos")
	require.NoError(t, err)
	assert.JSONEq(t, `{"perfumeName":"X","results":[]}`, string(ex.Value))
}

func TestExtractJSON_Repaired(t *testing.T) {
	ex, err := ExtractJSON(`{"perfumeName":'X',"results":[{"store":"S","price_ars":100,},]}`)
	require.NoError(t, err)
	assert.True(t, ex.Repaired())
	assert.JSONEq(t, `{"perfumeName":"X","results":[{"store":"S","price_ars":100}]}`, string(ex.Value))
}

func TestExtractJSON_KeepsKeyOrder(t *testing.T) {
	ex, err := ExtractJSON(`{"z":1,"a":2}`)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2}`, string(ex.Value))
}

func TestExtractJSON_Unsalvageable(t *testing.T) {
	_, err := ExtractJSON("I cannot help with that.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad JSON in model reply")
}

func TestExtractJSON_Empty(t *testing.T) {
	_, err := ExtractJSON("```json\n```")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestExtractJSON_FenceInsideValue(t *testing.T) {
	ex, err := ExtractJSON("```json\n{\"notes\":\"run ```bash then\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"notes":"run bash then"}`, string(ex.Value))
}
