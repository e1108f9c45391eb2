package types_test

import (
	"encoding/json"
	"testing"

	"github.com/kurumaworks/tenkendb/internal/types"
)

func TestFlexStringsArray(t *testing.T) {
	var f types.FlexStrings
	if err := json.Unmarshal([]byte(`["a","b"]`), &f); err != nil {
		t.Fatalf("array unmarshal failed: %v", err)
	}
	if len(f) != 2 || f[1] != "b" {
		t.Errorf("unexpected result %v", f)
	}
}

func TestFlexStringsEncodedString(t *testing.T) {
	var f types.FlexStrings
	if err := json.Unmarshal([]byte(`"[\"a\",\"b\"]"`), &f); err != nil {
		t.Fatalf("string unmarshal failed: %v", err)
	}
	if len(f) != 2 || f[0] != "a" {
		t.Errorf("unexpected result %v", f)
	}
}

func TestFlexStringsEmptyAndNull(t *testing.T) {
	var f types.FlexStrings
	if err := json.Unmarshal([]byte(`null`), &f); err != nil {
		t.Fatalf("null unmarshal failed: %v", err)
	}
	if f != nil {
		t.Errorf("null should leave nil, got %v", f)
	}

	if err := json.Unmarshal([]byte(`""`), &f); err != nil {
		t.Fatalf("empty string unmarshal failed: %v", err)
	}
	if f.Slice() != nil {
		t.Errorf("empty string should yield nil, got %v", f)
	}
}

func TestFlexStringsRejectsGarbage(t *testing.T) {
	var f types.FlexStrings
	if err := json.Unmarshal([]byte(`"{not an array}"`), &f); err == nil {
		t.Error("non-array payload should fail")
	}
	if err := json.Unmarshal([]byte(`123`), &f); err == nil {
		t.Error("number should fail")
	}
}
