// Package delatex escapes leftover LaTeX markup into plain or HTML text using
// a fixed substitution table.
package delatex

import (
	"regexp"
	"strings"

	"github.com/DPDmancul/latex-songs-to-html/line"
	"github.com/DPDmancul/latex-songs-to-html/util"
)

// Format selects the output mode of Escape.
type Format int

const (
	// Plain yields text with no markup.
	Plain Format = iota
	// HTML yields markup-safe rich text.
	HTML
)

var htmlReplacer = strings.NewReplacer(
	`\\`, "<br>",
	`\newline`, "<br>",
	`\star`, "&starf;",
	"~", "&nbsp;",
	`\dimshed`, "&deg;",
	`\meterCutC`, "&#x1D135;",
	`\lrep`, "&#x1D106;",
	`\rrep`, "&#x1D107;",
)

var plainReplacer = strings.NewReplacer(
	`\\`, "\n",
	`\newline`, "\n",
	`\star`, "⋆",
	"~", " ",
	`\dimshed`, "°",
	`\meterCutC`, "𝄵",
	`\lrep`, "𝄆",
	`\rrep`, "𝄇",
)

var commonReplacer = strings.NewReplacer(
	"---", "—­",
	"--", "–",
	`\dots`, "…",
	"$", "",
	`\ast`, "*",
	`\ `, " ",
	`\%`, "%",
	`\#`, "#",
	`\textbackslash`, `\`,
)

// macroRe matches any residual macro with optional arguments.
var macroRe = regexp.MustCompile(`\\(\d?\w+)[ \t]*?(\{.*?\}|\[.*?\])*`)

type envRes struct {
	empty *regexp.Regexp
	span  *regexp.Regexp
	subst string
}

var envSubs = buildEnvSubs()

func buildEnvSubs() []envRes {
	var res []envRes
	for _, env := range util.SortedKeys(line.SpanBegin) {
		res = append(res, envRes{
			empty: regexp.MustCompile(`(\\` + env + `[ \t]*?)\{[ \t]*\}`),
			span:  regexp.MustCompile(`(\\` + env + `[ \t]*?\{)((?:[^{}]*|\{.*?\})*?)(\}|$)`),
			subst: line.SpanBegin[env] + "${2}" + line.SpanEnd[env],
		})
	}
	return res
}

// Escape strips or maps the remaining LaTeX markup of src. With removeOther
// every macro not in the substitution table is deleted; otherwise it is kept
// verbatim.
func Escape(src string, out Format, removeOther bool) string {
	if out == HTML {
		src = htmlReplacer.Replace(src)
		for _, e := range envSubs {
			src = e.empty.ReplaceAllString(src, "")
			src = e.span.ReplaceAllString(src, e.subst)
		}
	}

	src = plainReplacer.Replace(src)
	src = commonReplacer.Replace(src)

	if removeOther {
		src = macroRe.ReplaceAllString(src, "")
	}

	src = strings.ReplaceAll(src, "{", "")
	src = strings.ReplaceAll(src, "}", "")

	if out == HTML {
		src = strings.ReplaceAll(src, "\n", "")
	}
	return src
}
