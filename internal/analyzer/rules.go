package analyzer

// Vocabulary for the rule-based sub-model. Counting is float-valued because
// intensifiers add fractional weight.
var (
	positiveWords = []string{"喜欢", "赞", "好", "棒", "优秀", "开心", "推荐", "支持", "厉害", "强"}
	negativeWords = []string{"差", "烂", "失望", "问题", "bug", "难用", "坑", "垃圾", "差劲", "弱"}
	negationWords = []string{"不", "没", "无", "非", "莫", "弗", "勿", "毋", "未", "否"}
	intensifiers  = []string{"很", "非常", "特别", "极", "太", "真", "超"}
)

var (
	positiveSet    = toSet(positiveWords)
	negativeSet    = toSet(negativeWords)
	negationSet    = toSet(negationWords)
	intensifierSet = toSet(intensifiers)
)

func toSet(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// ruleBasedScore counts polarity hits over the token stream, inverts the
// polarity of a token directly preceded by a negation, and adds 0.5 for a
// token directly preceded by an intensifier. Returns pos/(pos+neg), or the
// neutral midpoint when no polarity token was found.
func ruleBasedScore(tokens []string) float64 {
	var pos, neg float64

	for _, tok := range tokens {
		if _, ok := positiveSet[tok]; ok {
			pos++
		}
		if _, ok := negativeSet[tok]; ok {
			neg++
		}
	}

	for i := 0; i+1 < len(tokens); i++ {
		next := tokens[i+1]
		if _, ok := negationSet[tokens[i]]; ok {
			if _, isPos := positiveSet[next]; isPos {
				pos--
				neg++
			} else if _, isNeg := negativeSet[next]; isNeg {
				neg--
				pos++
			}
		}
	}

	for i := 0; i+1 < len(tokens); i++ {
		next := tokens[i+1]
		if _, ok := intensifierSet[tokens[i]]; ok {
			if _, isPos := positiveSet[next]; isPos {
				pos += 0.5
			} else if _, isNeg := negativeSet[next]; isNeg {
				neg += 0.5
			}
		}
	}

	total := pos + neg
	if total == 0 {
		return 0.5
	}
	score := pos / total
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
