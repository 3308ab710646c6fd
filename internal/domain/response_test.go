package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModelResponseMarshalText(t *testing.T) {
	data, err := json.Marshal(TextResponse("hello"))
	require.NoError(t, err)
	require.JSONEq(t, `{"response":"hello"}`, string(data))
}

func TestModelResponseMarshalObject(t *testing.T) {
	r := &ModelResponse{Object: map[string]any{"overview": "short", "count": 2}}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"response":{"overview":"short","count":2}}`, string(data))
}

func TestModelResponseUnmarshalString(t *testing.T) {
	var r ModelResponse
	require.NoError(t, json.Unmarshal([]byte(`{"response":"plain answer"}`), &r))
	require.Equal(t, "plain answer", r.Text)
	require.False(t, r.IsStructured())
}

func TestModelResponseUnmarshalObject(t *testing.T) {
	var r ModelResponse
	require.NoError(t, json.Unmarshal([]byte(`{"response":{"a":1}}`), &r))
	require.True(t, r.IsStructured())
	require.Equal(t, float64(1), r.Object["a"])
}

func TestModelResponseUnmarshalRejectsOtherShapes(t *testing.T) {
	var r ModelResponse
	require.Error(t, json.Unmarshal([]byte(`{"response":[1,2]}`), &r))
	require.Error(t, json.Unmarshal([]byte(`{}`), &r))
}
