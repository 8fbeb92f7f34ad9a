package utils

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// CleanQuestionText turns a form label into plain text. The extension sometimes sends
// the label's innerHTML ("Are you <b>authorized</b> to work...<span>*</span>"), so any
// markup is dropped, entities decoded and the text nodes joined. Whitespace is collapsed.
func CleanQuestionText(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = htmlText(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

func htmlText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way we have what we can get
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// NormalizeQuestion is the stored form of a question: cleaned, lowercased, trimmed.
func NormalizeQuestion(s string) string {
	return strings.ToLower(CleanQuestionText(s))
}

// QuestionWords returns the distinct words of a question, a word being a run of
// letters or digits ("What's your e-mail?" -> what, s, your, e, mail).
func QuestionWords(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		words[f] = struct{}{}
	}
	return words
}

// WordOverlap is |A∩B| / max(|A|,|B|) over the word sets of a and b; 0 when either is empty.
func WordOverlap(a, b string) float64 {
	wa, wb := QuestionWords(a), QuestionWords(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}

	denom := len(wa)
	if len(wb) > denom {
		denom = len(wb)
	}
	return float64(shared) / float64(denom)
}
