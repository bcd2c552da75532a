package mcpserver

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

// parseJSONNumbers is parseJSON with numbers kept as json.Number, so
// integers beyond 2^53 reach ParseValue intact.
func parseJSONNumbers(data string, target any) error {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	return dec.Decode(target)
}

// textValue renders a decoded JSON scalar as the text a user would type.
func textValue(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}
