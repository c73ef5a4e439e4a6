package ioconfig

import (
	"encoding/xml"
	"testing"
)

func attrOf(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func TestParseUnitsFillsInDefaults(t *testing.T) {
	n := &Node{}
	n.Attrs = append(n.Attrs, attrOf("unitLength", "2.5"))

	u, err := ParseUnits(n)
	if err != nil {
		t.Fatalf("ParseUnits failed: %v", err)
	}
	if u.Length != 2.5 {
		t.Fatalf("expected Length=2.5, got %v", u.Length)
	}
	if u.Velocity != 1 || u.Energy != 1 || u.Time != 1 || u.Acceleration != 1 {
		t.Fatalf("expected unspecified factors to default to 1, got %+v", u)
	}
}

func TestParseUnitsRejectsNonNumeric(t *testing.T) {
	n := &Node{}
	n.Attrs = append(n.Attrs, attrOf("unitLength", "not-a-number"))
	if _, err := ParseUnits(n); err == nil {
		t.Fatal("expected an error for a non-numeric unit factor")
	}
}
