package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ModelResponse is the parsed structured output of the language model.
// The model answers either with a plain string or with a nested object;
// exactly one of Text or Object is set.
type ModelResponse struct {
	Text   string
	Object map[string]any
}

// TextResponse wraps a plain string answer.
func TextResponse(text string) *ModelResponse {
	return &ModelResponse{Text: text}
}

// IsStructured reports whether the model answered with a nested object.
func (r *ModelResponse) IsStructured() bool {
	return r != nil && r.Object != nil
}

// MarshalJSON encodes the response in the wire shape {"response": ...}.
func (r ModelResponse) MarshalJSON() ([]byte, error) {
	if r.Object != nil {
		return json.Marshal(map[string]any{"response": r.Object})
	}
	return json.Marshal(map[string]string{"response": r.Text})
}

// UnmarshalJSON decodes {"response": <string or object>}.
func (r *ModelResponse) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if len(envelope.Response) == 0 {
		return errors.New("missing response field")
	}
	var text string
	if err := json.Unmarshal(envelope.Response, &text); err == nil {
		r.Text = text
		r.Object = nil
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(envelope.Response, &obj); err != nil {
		return fmt.Errorf("response is neither string nor object: %w", err)
	}
	r.Text = ""
	r.Object = obj
	return nil
}
