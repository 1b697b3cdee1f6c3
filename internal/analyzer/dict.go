package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DictEntry is one weighted sentiment term: Score is the term's polarity in
// [0,1], Weight its contribution to the weighted mean.
type DictEntry struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Dictionary maps terms to weighted sentiment entries.
type Dictionary map[string]DictEntry

// defaultDictionary is the base vocabulary every domain dictionary merges
// over.
func defaultDictionary() Dictionary {
	return Dictionary{
		"喜欢": {Score: 0.8, Weight: 1.0},
		"赞":  {Score: 0.9, Weight: 1.0},
		"好":  {Score: 0.7, Weight: 0.7},
		"棒":  {Score: 0.8, Weight: 1.0},
		"优秀": {Score: 0.8, Weight: 1.0},
		"开心": {Score: 0.8, Weight: 1.0},
		"推荐": {Score: 0.7, Weight: 0.8},

		"差":   {Score: 0.2, Weight: 0.8},
		"烂":   {Score: 0.1, Weight: 1.0},
		"失望":  {Score: 0.2, Weight: 1.0},
		"问题":  {Score: 0.3, Weight: 0.7},
		"bug": {Score: 0.2, Weight: 0.8},
		"难用":  {Score: 0.2, Weight: 0.9},
		"坑":   {Score: 0.2, Weight: 0.8},
	}
}

// terms returns the dictionary's vocabulary for tokenizer construction.
func (d Dictionary) terms() []string {
	out := make([]string, 0, len(d))
	for term := range d {
		out = append(out, term)
	}
	return out
}

// merge overlays other on top of d; the overlay wins on conflicts.
func (d Dictionary) merge(other Dictionary) {
	for term, entry := range other {
		d[term] = entry
	}
}

// DictStore persists domain dictionaries as JSON files under a directory,
// one file per domain.
type DictStore struct {
	dir string
}

// NewDictStore returns a store rooted at dir. The directory is created lazily
// on the first save.
func NewDictStore(dir string) *DictStore {
	return &DictStore{dir: dir}
}

func (s *DictStore) path(domain string) string {
	return filepath.Join(s.dir, domain+".json")
}

// Load returns the persisted dictionary for domain, or an empty one when no
// file exists.
func (s *DictStore) Load(domain string) (Dictionary, error) {
	raw, err := os.ReadFile(s.path(domain))
	if os.IsNotExist(err) {
		return Dictionary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read domain dict %q: %w", domain, err)
	}

	var dict Dictionary
	if err := json.Unmarshal(raw, &dict); err != nil {
		return nil, fmt.Errorf("parse domain dict %q: %w", domain, err)
	}
	return dict, nil
}

// Save merges entries into the persisted dictionary for domain and writes it
// back.
func (s *DictStore) Save(domain string, entries Dictionary) error {
	existing, err := s.Load(domain)
	if err != nil {
		return err
	}
	existing.merge(entries)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create dict dir: %w", err)
	}

	raw, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("encode domain dict %q: %w", domain, err)
	}
	if err := os.WriteFile(s.path(domain), raw, 0o644); err != nil {
		return fmt.Errorf("write domain dict %q: %w", domain, err)
	}
	return nil
}

// domainDictScore computes the weighted mean of dictionary hits over the
// token stream: Σ(score·weight)/Σ(weight), or the neutral midpoint when
// nothing matched.
func domainDictScore(dict Dictionary, tokens []string) float64 {
	var totalScore, totalWeight float64

	for _, tok := range tokens {
		if entry, ok := dict[tok]; ok {
			totalScore += entry.Score * entry.Weight
			totalWeight += entry.Weight
		}
	}

	if totalWeight == 0 {
		return 0.5
	}
	return totalScore / totalWeight
}
