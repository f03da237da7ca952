package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, 10, 4)

	for i := 0; i < 6; i++ {
		p.Increment()
	}
	if p.Fraction() != 1 {
		t.Errorf("increment: progress past maximum \n\twant(%v)\n\thave(%v)",
			1, p.Fraction())
	}

	p.Display()
	p.Close()
	out := buf.String()
	if strings.Count(out, "█") != 10 {
		t.Errorf("display: bar width \n\twant(%v)\n\thave(%v)", 10,
			strings.Count(out, "█"))
	}
	if !strings.Contains(out, "100.00%") {
		t.Errorf("display: missing percentage in %q", out)
	}
}

func TestProgressBarPartial(t *testing.T) {
	p := New(&bytes.Buffer{}, 8, 4)
	p.Increment()
	if s := p.String(); strings.Count(s, "█") != 2 ||
		!strings.Contains(s, "25.00%") {
		t.Errorf("string: quarter progress \n\thave(%q)", s)
	}
}
