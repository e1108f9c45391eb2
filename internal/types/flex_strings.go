// flex_strings.go
//
// Tolerant decoding for list-valued wire fields that historical records stored
// either as a JSON array or as a JSON-encoded string containing an array.

package types

import (
	"encoding/json"
)

// FlexStrings is a string slice that can be unmarshaled from either a JSON array
// or a JSON string holding an encoded array ("[\"a\",\"b\"]").
type FlexStrings []string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// If it starts with '[', treat it as a normal array
	if data[0] == '[' {
		var slice []string
		if err := json.Unmarshal(data, &slice); err != nil {
			return err
		}
		*f = FlexStrings(slice)
		return nil
	}

	// Otherwise expect a JSON string wrapping the encoded array
	var inner string
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}
	if inner == "" {
		*f = nil
		return nil
	}
	var slice []string
	if err := json.Unmarshal([]byte(inner), &slice); err != nil {
		return err
	}
	*f = FlexStrings(slice)
	return nil
}

// Slice converts FlexStrings back to []string.
func (f FlexStrings) Slice() []string {
	return []string(f)
}
