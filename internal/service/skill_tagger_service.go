package service

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fadilmartias/resume-matcher/internal/model"
)

// DefaultSkillVocabulary is matched by plain substring containment, so short
// keywords also hit inside longer words ("java" in "javascript").
var DefaultSkillVocabulary = []string{
	"python", "java", "javascript", "typescript", "golang", "rust", "c++", "c#", "php", "ruby",
	"sql", "postgresql", "mysql", "mongodb", "redis", "kafka", "rabbitmq",
	"docker", "kubernetes", "terraform", "aws", "azure", "gcp", "linux", "git",
	"react", "angular", "vue", "node.js", "django", "flask", "spring", "graphql",
	"html", "css", "machine learning", "deep learning", "nlp", "tensorflow", "pytorch",
	"pandas", "excel", "tableau", "power bi", "photoshop", "figma", "agile", "scrum",
}

type SkillTagger struct {
	vocabulary []string
}

func NewSkillTagger(vocabulary ...string) *SkillTagger {
	if len(vocabulary) == 0 {
		vocabulary = DefaultSkillVocabulary
	}
	normalized := make([]string, 0, len(vocabulary))
	for _, keyword := range vocabulary {
		if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" {
			normalized = append(normalized, keyword)
		}
	}
	return &SkillTagger{vocabulary: normalized}
}

// Tag returns the sorted, de-duplicated canonical names found in text.
func (t *SkillTagger) Tag(text string) []string {
	lowered := strings.ToLower(text)

	seen := make(map[string]struct{})
	var skills []string
	for _, keyword := range t.vocabulary {
		if !strings.Contains(lowered, keyword) {
			continue
		}
		name := capitalize(keyword)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		skills = append(skills, name)
	}
	sort.Strings(skills)
	return skills
}

// TagString joins Tag's result with ", ", or returns model.SkillsNotAvailable.
func (t *SkillTagger) TagString(text string) string {
	skills := t.Tag(text)
	if len(skills) == 0 {
		return model.SkillsNotAvailable
	}
	return strings.Join(skills, ", ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
