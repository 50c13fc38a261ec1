// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// all report and measurement logic to services.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
)

const rule = "────────────────────────────────────────────────────────────────"

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

// Badge renders a verdict as a colored PASS/FAIL tag; an empty status renders as "-".
func Badge(status report.Status) string {
	switch status {
	case report.Pass:
		return passColor.Sprint("PASS")
	case report.Fail:
		return failColor.Sprint("FAIL")
	}
	return dimColor.Sprint("-")
}

// PrintIdentity writes the parsed identity of a barcode, warning about
// fields that fell back to unknown.
func PrintIdentity(out io.Writer, barcode string, id identity.BoardIdentity) {
	fmt.Fprintf(out, "Barcode:  %s\n", barcode)
	fmt.Fprintf(out, "Name:     %s\n", id.Name)
	fmt.Fprintf(out, "Revision: %s\n", id.Revision)
	fmt.Fprintf(out, "Variant:  %s\n", id.Variant)
	fmt.Fprintf(out, "Serial:   %s\n", id.Serial)
	fmt.Fprintf(out, "Document: %s\n", id.Filename())
	if missing := id.Defaulted(); len(missing) > 0 {
		fmt.Fprintf(out, "%s defaulted to %q: %s\n", warnColor.Sprint("!"), identity.Unknown, strings.Join(missing, ", "))
	}
}
