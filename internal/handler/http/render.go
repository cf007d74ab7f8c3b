package http

import "github.com/microcosm-cc/bluemonday"

// bodyPolicy renders stored bodies for direct embedding in HTML pages. The
// stored body itself is never rewritten.
var bodyPolicy = bluemonday.UGCPolicy()

// RenderBodyHTML returns body with unsafe markup removed and text escaped.
func RenderBodyHTML(body string) string {
	return bodyPolicy.Sanitize(body)
}
