package analyzer

import "unicode"

// tokenizer segments text by maximal munch against the sentiment vocabulary
// (polarity terms, negations, intensifiers, and the active domain dictionary).
// Driving segmentation off the scoring vocabulary itself keeps negation and
// intensifier adjacency stable: "不" is never swallowed into a longer token
// unless the dictionary explicitly carries the compound.
type tokenizer struct {
	vocab  map[string]struct{}
	maxLen int
}

func newTokenizer(vocabs ...[]string) *tokenizer {
	t := &tokenizer{vocab: make(map[string]struct{})}
	for _, vocab := range vocabs {
		for _, word := range vocab {
			t.add(word)
		}
	}
	return t
}

func (t *tokenizer) add(word string) {
	if word == "" {
		return
	}
	t.vocab[word] = struct{}{}
	if n := len([]rune(word)); n > t.maxLen {
		t.maxLen = n
	}
}

func isLatinAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// tokens splits text into vocabulary matches, latin-script runs, and single
// runes, in order of appearance. Whitespace is dropped.
func (t *tokenizer) tokens(text string) []string {
	runes := []rune(text)
	var out []string

	for i := 0; i < len(runes); {
		r := runes[i]

		if unicode.IsSpace(r) {
			i++
			continue
		}

		// Latin words and numbers ("bug", "404") form one token.
		if isLatinAlnum(r) {
			j := i
			for j < len(runes) && isLatinAlnum(runes[j]) {
				j++
			}
			out = append(out, string(runes[i:j]))
			i = j
			continue
		}

		matched := false
		limit := t.maxLen
		if rest := len(runes) - i; rest < limit {
			limit = rest
		}
		for n := limit; n >= 1; n-- {
			candidate := string(runes[i : i+n])
			if _, ok := t.vocab[candidate]; ok {
				out = append(out, candidate)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, string(r))
			i++
		}
	}

	return out
}
