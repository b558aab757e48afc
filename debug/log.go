package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

var out io.Writer = os.Stderr

// SetOutput redirects Logf, it returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch a.(type) {
		case map[string]any, []any, json.Number, json.Marshaler:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case bool, string, float64, int:

		default:
		}
	}
	fmt.Fprintf(out, msg, args...)
}
