package schema

import "testing"

func TestTypeName_CallerOverrideWins(t *testing.T) {
	if got := TypeName("widgets", "Gadget"); got != "Gadget" {
		t.Fatalf("TypeName() = %q, want Gadget", got)
	}
}

func TestTypeName_DerivedFromContainerName(t *testing.T) {
	cases := map[string]string{
		"widgets":   "WidgetsWidget",
		"companies": "CompaniesCompany",
		"boxes":     "BoxesBox",
		"class":     "ClassClass",
	}
	for in, want := range cases {
		if got := TypeName(in, ""); got != want {
			t.Errorf("TypeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConnectionTypeName(t *testing.T) {
	if got := ConnectionTypeName("Widget"); got != "WidgetsConnection" {
		t.Fatalf("ConnectionTypeName() = %q, want WidgetsConnection", got)
	}
}

func TestFieldNames(t *testing.T) {
	point, list := FieldNames("Widget")
	if point != "widget" {
		t.Errorf("point = %q, want widget", point)
	}
	if list != "widgets" {
		t.Errorf("list = %q, want widgets", list)
	}
}

func TestWhereOperatorsTypeName(t *testing.T) {
	if got := WhereOperatorsTypeName("Widget"); got != "WidgetWhereOperators" {
		t.Fatalf("WhereOperatorsTypeName() = %q", got)
	}
}
