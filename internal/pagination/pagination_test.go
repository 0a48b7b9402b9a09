package pagination

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", "", 1, DefaultPageSize},
		{"explicit", "3", "10", 3, 10},
		{"non-numeric page", "abc", "10", 1, 10},
		{"non-numeric limit", "2", "abc", 2, DefaultPageSize},
		{"zero page", "0", "10", 1, 10},
		{"negative limit", "2", "-5", 2, DefaultPageSize},
		{"limit capped", "1", "500", 1, MaxPageSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Parse(tc.pageStr, tc.limitStr)
			if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
				t.Fatalf("Parse(%q, %q) = %+v, want page=%d limit=%d",
					tc.pageStr, tc.limitStr, p, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	cases := []struct {
		page, limit, want int
	}{
		{1, 6, 0},
		{2, 6, 6},
		{3, 10, 20},
	}
	for _, tc := range cases {
		p := Params{Page: tc.page, Limit: tc.limit}
		if got := p.Offset(); got != tc.want {
			t.Fatalf("Offset for page=%d limit=%d = %d, want %d", tc.page, tc.limit, got, tc.want)
		}
	}
}
