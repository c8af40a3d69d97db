// Package redact masks secrets and contact details in free-text answers
// before they are written to reports or exports.
package redact

import (
	"regexp"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/session"
)

// Mask replaces every redacted span.
const Mask = "[REDACTED]"

type rule struct {
	name string
	re   *regexp.Regexp
}

var rules = []rule{
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"private-key", regexp.MustCompile(`-----BEGIN [A-Z ]+PRIVATE KEY-----[\s\S]*?-----END [A-Z ]+PRIVATE KEY-----`)},
	{"bearer", regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]+=*`)},
	{"assignment", regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password|passwd|credentials)\s*[:=]\s*\S+`)},
	{"email", regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)},
	{"phone", regexp.MustCompile(`(?:\+\d|\(\d)[\d ().\-]{7,}\d`)},
}

// Rules returns the names of the active redaction rules in application order.
func Rules() []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.name)
	}
	return names
}

// Text masks every match of the redaction rules in s.
func Text(s string) string {
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, Mask)
	}
	return s
}

// Value masks string answers, including strings inside lists.
// Numbers and other shapes pass through unchanged.
func Value(v answer.Value) answer.Value {
	switch v.Kind() {
	case answer.KindString:
		return answer.String(Text(v.Str()))
	case answer.KindList:
		items := make([]answer.Value, 0, len(v.Items()))
		for _, it := range v.Items() {
			items = append(items, Value(it))
		}
		return answer.List(items...)
	}
	return v
}

// Sections returns a copy of sec with every answer value and display value masked.
func Sections(sec session.Sections) session.Sections {
	return session.Sections{
		Project:            records(sec.Project),
		RawRisk:            records(sec.RawRisk),
		Mitigation:         records(sec.Mitigation),
		MitigationPositive: records(sec.MitigationPositive),
	}
}

func records(in []session.AnswerRecord) []session.AnswerRecord {
	if in == nil {
		return nil
	}
	out := make([]session.AnswerRecord, len(in))
	for i, rec := range in {
		rec.Value = Value(rec.Value)
		rec.DisplayValue = Text(rec.DisplayValue)
		out[i] = rec
	}
	return out
}
