package services

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Frame tolerates the loose values order forms send: a number, a numeric
// string, null, or garbage. Anything unusable decodes to 0.
type Frame int

func (f *Frame) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = Frame(n)
	return nil
}

func (f Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}
