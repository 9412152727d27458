package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, raw string) {
		t.Helper()
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	validate(compile("hello.schema.json"), `{"type":"HELLO","protocol_version":"1.0","agent_name":"bot1"}`)
	validate(compile("welcome.schema.json"), `{"type":"WELCOME","protocol_version":"1.0","agent_id":"A1"}`)
	validate(compile("maze.schema.json"), `{"type":"MAZE","width":5,"height":1,"rows":["....."]}`)
	validate(compile("bait.schema.json"), `{"type":"BAIT_APPEARED","x":4,"y":0,"score":314,"kind":"GEM"}`)
	validate(compile("self.schema.json"), `{"type":"SELF","id":"A1","x":0,"y":0,"facing":"E"}`)
	validate(compile("agent_event.schema.json"), `{"type":"AGENT_EVENT","kind":"STEP","id":"A2","x":5,"y":0,"facing":"W"}`)
	validate(compile("pause.schema.json"), `{"type":"PAUSE","paused":true}`)
	validate(compile("act.schema.json"), `{"type":"ACT","tick":7,"action":"STEP"}`)
}

func TestSchemas_RejectMalformedBait(t *testing.T) {
	s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "bait.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var v any
	_ = json.Unmarshal([]byte(`{"type":"BAIT_APPEARED","x":-1,"y":0,"score":13,"kind":"FOOD"}`), &v)
	if err := s.Validate(v); err == nil {
		t.Fatal("expected validation error for negative coordinate")
	}
}
