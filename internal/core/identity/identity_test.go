package identity

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		barcode string
		want    BoardIdentity
	}{
		{
			name:    "full barcode",
			barcode: "camctrl-0002-a-00123",
			want:    BoardIdentity{Name: "camctrl", Revision: "0002", Variant: "a", Serial: "00123"},
		},
		{
			name:    "name is lowercased, other fields verbatim",
			barcode: "CamCtrl-0002-A-00Xy5",
			want:    BoardIdentity{Name: "camctrl", Revision: "0002", Variant: "A", Serial: "00Xy5"},
		},
		{
			name:    "trailing text after whitespace is ignored",
			barcode: "imx2cc-0020-b-0042 lot 7\n",
			want:    BoardIdentity{Name: "imx2cc", Revision: "0020", Variant: "b", Serial: "0042"},
		},
		{
			name:    "extra hyphenated fields stop the serial",
			barcode: "a-b-c-d-e",
			want:    BoardIdentity{Name: "a", Revision: "b", Variant: "c", Serial: "d"},
		},
		{
			name:    "empty string defaults every field",
			barcode: "",
			want:    BoardIdentity{Name: Unknown, Revision: Unknown, Variant: Unknown, Serial: Unknown},
		},
		{
			name:    "no delimiter",
			barcode: "garbage",
			want:    BoardIdentity{Name: Unknown, Revision: Unknown, Variant: Unknown, Serial: Unknown},
		},
		{
			name:    "name only",
			barcode: "camctrl-0002",
			want:    BoardIdentity{Name: "camctrl", Revision: Unknown, Variant: Unknown, Serial: Unknown},
		},
		{
			name:    "missing serial delimiter",
			barcode: "camctrl-0002-a",
			want:    BoardIdentity{Name: "camctrl", Revision: "0002", Variant: Unknown, Serial: Unknown},
		},
		{
			name:    "empty serial after last delimiter is kept empty",
			barcode: "camctrl-0002-a-",
			want:    BoardIdentity{Name: "camctrl", Revision: "0002", Variant: "a", Serial: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.barcode)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.barcode, got, tt.want)
			}
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	inputs := []string{"", "-", "---", "----", "a-b-c-d", "\x00-\xff-é-ñ", "  -  -  -  "}
	for _, in := range inputs {
		first := Parse(in)
		for i := 0; i < 5; i++ {
			if got := Parse(in); got != first {
				t.Fatalf("Parse(%q) not deterministic: %+v vs %+v", in, got, first)
			}
		}
	}
}

func TestBoardIdentity_Filename(t *testing.T) {
	id := Parse("camctrl-0002-a-0005")
	if got := id.Filename(); got != "camctrl-0002-a-0005.json" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestBoardIdentity_Defaulted(t *testing.T) {
	if got := Parse("camctrl-0002-a-1").Defaulted(); len(got) != 0 {
		t.Errorf("expected no defaulted fields, got %v", got)
	}

	got := Parse("camctrl-0002").Defaulted()
	want := []string{"revision", "variant", "serial"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Defaulted() = %v, want %v", got, want)
	}
	if Parse("camctrl-0002").IsComplete() {
		t.Error("expected partial identity to be incomplete")
	}
}

func TestCanStore(t *testing.T) {
	tests := []struct {
		name        string
		id          BoardIdentity
		wantAllowed bool
	}{
		{"plain identity", Parse("camctrl-0002-a-1"), true},
		{"defaulted identity", Parse(""), true},
		{"slash in serial", BoardIdentity{Name: "a", Revision: "b", Variant: "c", Serial: "x/y"}, false},
		{"backslash in name", BoardIdentity{Name: `a\b`, Revision: "b", Variant: "c", Serial: "d"}, false},
		{"parent reference", BoardIdentity{Name: "..", Revision: "b", Variant: "c", Serial: "d"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanStore(tt.id)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanStore() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if err := result.Error(); tt.wantAllowed != (err == nil) {
				t.Errorf("CanStore().Error() = %v", err)
			}
		})
	}
}
