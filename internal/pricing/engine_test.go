package pricing

import "testing"

type fixedQuote struct {
	amount, discount Money
}

func (q fixedQuote) Amount() Money   { return q.amount }
func (q fixedQuote) Discount() Money { return q.discount }
func (q fixedQuote) Total() Money    { return q.amount - q.discount }

func TestSummarize(t *testing.T) {
	s := Summarize(fixedQuote{300, 50}, fixedQuote{500, 0}, nil)
	if s.Amount != 800 || s.Discount != 50 || s.Total != 750 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSummarizeCapsDiscount(t *testing.T) {
	s := Summarize(fixedQuote{100, 250})
	if s.Discount != 100 || s.Total != 0 {
		t.Fatalf("expected capped discount, got %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(); s != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestFormat(t *testing.T) {
	cases := map[Money]string{
		0:     "0.00",
		5:     "0.05",
		250:   "2.50",
		12345: "123.45",
		-75:   "-0.75",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Fatalf("Format(%d) = %q, want %q", in, got, want)
		}
	}
}
