package model

import (
	"encoding/json"
	"testing"
)

func TestOptionalUnmarshal_TriState(t *testing.T) {
	type patch struct {
		Name Optional[string] `json:"name"`
		Port Optional[int]    `json:"port"`
	}

	var p patch
	if err := json.Unmarshal([]byte(`{"name":"plex","port":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !p.Name.Set || !p.Name.Valid || p.Name.Value != "plex" {
		t.Fatalf("expected present name, got %+v", p.Name)
	}
	// Explicit null is present but invalid: the caller asked to clear.
	if !p.Port.Set || p.Port.Valid {
		t.Fatalf("expected explicit-null port, got %+v", p.Port)
	}

	var absent patch
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if absent.Name.Set || absent.Port.Set {
		t.Fatalf("absent keys must stay unset, got %+v", absent)
	}
}

func TestOptionalUnmarshal_TypeMismatch(t *testing.T) {
	var o Optional[int]
	if err := json.Unmarshal([]byte(`"not a number"`), &o); err == nil {
		t.Fatal("expected a type error")
	}
}

func TestOptionalPtr(t *testing.T) {
	if p := Some(32400).Ptr(); p == nil || *p != 32400 {
		t.Fatalf("expected pointer to value, got %v", p)
	}
	if p := Null[int]().Ptr(); p != nil {
		t.Fatalf("expected nil for null, got %v", p)
	}
	var absent Optional[int]
	if p := absent.Ptr(); p != nil {
		t.Fatalf("expected nil for absent, got %v", p)
	}
}
