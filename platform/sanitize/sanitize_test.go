package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	got := StripHTML(`<b>Hôtel</b> &lt;script&gt;alert(1)&lt;/script&gt; Teranga &eacute;`)
	if got != "Hôtel alert(1) Teranga é" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestTextKeepsParagraphs(t *testing.T) {
	in := "  Appel   du client\r\n\r\n\r\n\r\nRappeler   <i>lundi</i>\t matin  "
	want := "Appel du client\n\nRappeler lundi matin"
	if got := Text(in); got != want {
		t.Fatalf("Text(%q) = %q, want %q", in, got, want)
	}
}

func TestLineCollapsesWhitespace(t *testing.T) {
	cases := map[string]string{
		" <b>Hôtel</b>\n  Teranga ": "Hôtel Teranga",
		"Sococim\tIndustries":       "Sococim Industries",
		"   ":                       "",
	}
	for in, want := range cases {
		if got := Line(in); got != want {
			t.Fatalf("Line(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPointerHelpers(t *testing.T) {
	if TextPtr(nil) != nil || LinePtr(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
	in := "  <i>Dakar</i>\n Plateau "
	if out := TextPtr(&in); out == nil || *out != "Dakar\nPlateau" {
		t.Fatalf("unexpected TextPtr result %v", out)
	}
	if out := LinePtr(&in); out == nil || *out != "Dakar Plateau" {
		t.Fatalf("unexpected LinePtr result %v", out)
	}
}
