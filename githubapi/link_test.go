package githubapi

import "testing"

func TestParseNextLink(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		wantOk bool
	}{
		{
			name:   "next and last",
			header: `<https://api.github.com/resource?page=2>; rel="next", <https://api.github.com/resource?page=5>; rel="last"`,
			want:   "https://api.github.com/resource?page=2",
			wantOk: true,
		},
		{
			name:   "only last, no next",
			header: `<https://api.github.com/resource?page=5>; rel="last"`,
			wantOk: false,
		},
		{
			name:   "empty header",
			header: "",
			wantOk: false,
		},
		{
			name:   "unquoted rel",
			header: `<https://api.github.com/resource?page=3>; rel=next`,
			want:   "https://api.github.com/resource?page=3",
			wantOk: true,
		},
		{
			name:   "next appears after other rels",
			header: `<https://api.github.com/resource?page=1>; rel="prev", <https://api.github.com/resource?page=3>; rel="next"`,
			want:   "https://api.github.com/resource?page=3",
			wantOk: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := parseNextLink(c.header)
			if ok != c.wantOk {
				t.Fatalf("ok = %v, want %v", ok, c.wantOk)
			}
			if ok && got != c.want {
				t.Errorf("uri = %q, want %q", got, c.want)
			}
		})
	}
}
