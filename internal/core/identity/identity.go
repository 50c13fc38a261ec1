// Package identity contains the pure barcode to board identity mapping.
// This is part of the Functional Core - no I/O, only pure functions.
package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// Unknown is the value assigned to any identity field the barcode does not supply.
const Unknown = "unknown"

// Barcode grammar: NAME-REVISION-VARIANT-SERIAL[ trailing-ignored].
// Each field is matched independently so a partial barcode still yields
// the fields it does contain.
var (
	namePattern     = regexp.MustCompile(`^(.*?)-`)
	revisionPattern = regexp.MustCompile(`^[^-]*-(.*?)-`)
	variantPattern  = regexp.MustCompile(`(?:[^-]*-){2}([^-]*)-`)
	serialPattern   = regexp.MustCompile(`(?:[^-]*-){3}([^-\s]*)`)
)

// BoardIdentity is the canonical (name, revision, variant, serial) tuple of a board.
type BoardIdentity struct {
	Name     string `json:"name"`
	Revision string `json:"revision"`
	Variant  string `json:"variant"`
	Serial   string `json:"serial"`
}

// Parse maps a scanned barcode to a BoardIdentity.
// It never fails: fields the barcode does not supply are set to Unknown.
// Name is lowercased; the remaining fields are kept verbatim.
func Parse(barcode string) BoardIdentity {
	id := BoardIdentity{
		Name:     submatch(namePattern, barcode),
		Revision: submatch(revisionPattern, barcode),
		Variant:  submatch(variantPattern, barcode),
		Serial:   submatch(serialPattern, barcode),
	}
	if id.Name != Unknown {
		id.Name = strings.ToLower(id.Name)
	}
	return id
}

func submatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return Unknown
	}
	return m[1]
}

// String returns the hyphen-joined key, e.g. "camctrl-0002-a-00123".
func (b BoardIdentity) String() string {
	return fmt.Sprintf("%s-%s-%s-%s", b.Name, b.Revision, b.Variant, b.Serial)
}

// Filename returns the report document name for this identity.
func (b BoardIdentity) Filename() string {
	return b.String() + ".json"
}

// Defaulted returns the names of the fields that were set to Unknown.
// An empty result means the barcode supplied every field.
func (b BoardIdentity) Defaulted() []string {
	var fields []string
	if b.Name == Unknown {
		fields = append(fields, "name")
	}
	if b.Revision == Unknown {
		fields = append(fields, "revision")
	}
	if b.Variant == Unknown {
		fields = append(fields, "variant")
	}
	if b.Serial == Unknown {
		fields = append(fields, "serial")
	}
	return fields
}

// IsComplete reports whether every field was supplied by the barcode.
func (b BoardIdentity) IsComplete() bool {
	return len(b.Defaulted()) == 0
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanStore evaluates whether an identity can be used as a storage key.
// Rule: the key must stay inside the reports root, so no field may carry
// path separators or parent references.
func CanStore(b BoardIdentity) GuardResult {
	key := b.String()
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("identity %q cannot be used as a report key (path characters)", key),
		}
	}
	return GuardResult{Allowed: true}
}
