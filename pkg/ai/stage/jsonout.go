package stage

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/entity"
)

var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\s*```$")

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// decodeStrict parses exactly one JSON object into v, rejecting unknown
// fields and trailing content, then runs struct validation.
func decodeStrict(raw string, v interface{}) error {
	body := stripFences(raw)
	if body == "" {
		return apperror.New(apperror.KindSchemaValidation, "model returned no content")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperror.Wrap(apperror.KindSchemaValidation, err, "malformed model output %q", truncate(body, 120))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperror.New(apperror.KindSchemaValidation, "unexpected content after JSON object")
	}

	if err := entity.Validate(v); err != nil {
		return apperror.Wrap(apperror.KindSchemaValidation, err, "model output failed validation")
	}
	return nil
}
