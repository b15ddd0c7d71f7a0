package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled schemas by Schema.Name
var schemaCache sync.Map

// extractJSON trims whitespace and a surrounding markdown code fence from
// model output. Models without a native JSON mode often wrap the question
// object in ```json ... ```.
func extractJSON(text string) json.RawMessage {
	s := strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		// Drop the info string ("json") up to the first newline.
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[i+1:]
		} else {
			rest = ""
		}
		rest = strings.TrimSpace(rest)
		rest = strings.TrimSuffix(rest, "```")
		s = strings.TrimSpace(rest)
	}
	return json.RawMessage(s)
}

// checkQuestion validates raw against schema. A nil schema accepts
// anything. Failures are *Error with KindMalformed.
func checkQuestion(provider string, schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	malformed := func(err error, fields []string) error {
		return &Error{Kind: KindMalformed, Provider: provider, Content: raw, Fields: fields, Err: err}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return malformed(fmt.Errorf("not JSON: %w", err), nil)
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return malformed(fmt.Errorf("schema %q: %w", schema.Name, err), nil)
	}
	if err := compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return malformed(err, failedFields(verr))
		}
		return malformed(err, nil)
	}
	return nil
}

// failedFields collects the instance locations of the leaf causes of verr,
// e.g. "/answer".
func failedFields(verr *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := "/" + strings.Join(e.InstanceLocation, "/")
			if !slices.Contains(out, loc) {
				out = append(out, loc)
			}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return out
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed
	// slices, so round-trip the definition.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + schema.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
