package railway

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Identifier holds backend keys that arrive either as JSON numbers or strings.
// Numeric identifiers are sent back as numbers so the backend sees the type it issued.
type Identifier string

func (i *Identifier) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*i = Identifier(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*i = Identifier(number.String())

	return nil
}

func (i Identifier) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(i), 10, 64); err == nil {
		return []byte(i), nil
	}

	return json.Marshal(string(i))
}

func (i Identifier) String() string {
	return string(i)
}
