package githubapi

import "strings"

// parseNextLink extracts the rel="next" URI from an RFC 5988 Link
// header value, e.g.:
//
//	<https://api.github.com/resource?page=2>; rel="next", <https://api.github.com/resource?page=5>; rel="last"
//
// Returns "", false if no rel="next" entry is present.
func parseNextLink(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		uriPart := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(uriPart, "<") || !strings.HasSuffix(uriPart, ">") {
			continue
		}
		uri := strings.TrimSuffix(strings.TrimPrefix(uriPart, "<"), ">")

		isNext := false
		for _, param := range segments[1:] {
			param = strings.TrimSpace(param)
			if param == `rel="next"` || param == "rel=next" {
				isNext = true
				break
			}
		}
		if isNext {
			return uri, true
		}
	}
	return "", false
}
