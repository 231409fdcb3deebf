package compare

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const previewLen = 100

// Render writes a human-readable comparison report
func Render(w io.Writer, r *Result) {
	line := strings.Repeat("=", 60)

	fmt.Fprintln(w, "OUTPUT COMPARISON REPORT")
	fmt.Fprintln(w, line)

	fmt.Fprintln(w, "\n1. STRUCTURE CHECK:")
	if r.StructureMatches() {
		fmt.Fprintln(w, "  ✓ All required sections present")
		fmt.Fprintf(w, "  Sections: %s\n", strings.Join(r.Sections, ", "))
	} else {
		if len(r.Missing) > 0 {
			fmt.Fprintf(w, "  ✗ Missing sections: %s\n", strings.Join(r.Missing, ", "))
		}
		if len(r.Extra) > 0 {
			fmt.Fprintf(w, "  ✗ Extra sections: %s\n", strings.Join(r.Extra, ", "))
		}
	}

	fmt.Fprintln(w, "\n2. DATA CONTENT CHECK:")
	if len(r.Differences) == 0 {
		fmt.Fprintln(w, "  ✓ All data matches expected output")
	} else {
		fmt.Fprintln(w, "  ✗ Data differences found:")
		for _, d := range r.Differences {
			fmt.Fprintf(w, "\n  %s:\n", d.Section)
			fmt.Fprintf(w, "    Expected: %s...\n", preview(d.Expected))
			fmt.Fprintf(w, "    Actual:   %s...\n", preview(d.Actual))
		}
	}

	fmt.Fprintln(w, "\n3. METADATA CHECK:")
	for _, m := range r.Metadata {
		mark := "✓"
		if !m.Match {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s %s: %v (expected: %v)\n", mark, m.Key, m.Actual, m.Expected)
	}

	fmt.Fprintln(w, "\n"+line)
	if r.Equal() {
		fmt.Fprintln(w, "✓ OUTPUT MATCHES EXPECTED FORMAT (ignoring timestamps and runtime)")
	} else {
		fmt.Fprintln(w, "⚠ OUTPUT HAS DIFFERENCES - Review details above")
	}
}

func preview(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	s := string(data)
	if len(s) > previewLen {
		s = s[:previewLen]
	}
	return s
}
