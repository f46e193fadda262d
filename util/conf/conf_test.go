package conf

import (
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	c, err := Read(strings.NewReader("# labels\ndet\n\n  nsubj \nroot"))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Values) != 3 || c.Values[1] != "nsubj" || c.Values[2] != "root" {
		t.Error("Wrong values", c.Values)
	}
	if _, err := ReadFile("does-not-exist.conf"); err == nil {
		t.Error("Expected missing file to fail")
	}
}
