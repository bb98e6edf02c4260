package questiongen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/qgen/internal/llm"
)

var (
	countLine   = regexp.MustCompile(`(?m)^Number of questions: (\d+)$`)
	sourceBlock = regexp.MustCompile(`(?s)<source>\n(.*)\n</source>`)
	wordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z'-]{3,}`)
)

// SampleResponder answers question-generation prompts offline with
// fill-in-the-blank questions cut from the source text. It backs the "mock"
// provider so the form can be exercised without an API key.
func SampleResponder(req llm.Request) llm.MockResponse {
	var prompt string
	for _, m := range req.Messages {
		if m.Role == llm.RoleUser {
			prompt = m.Content
		}
	}

	count := 1
	if m := countLine.FindStringSubmatch(prompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			count = n
		}
	}
	source := prompt
	if m := sourceBlock.FindStringSubmatch(prompt); m != nil {
		source = m[1]
	}

	set := MCQList{Questions: clozeQuestions(source, count)}
	content, err := json.Marshal(set)
	if err != nil {
		return llm.MockResponse{Err: err}
	}
	return llm.MockResponse{
		Content: content,
		Usage: llm.Usage{
			InputTokens:  req.Size() / 4,
			OutputTokens: len(content) / 4,
			TotalTokens:  (req.Size() + len(content)) / 4,
		},
	}
}

func clozeQuestions(source string, count int) []MultipleChoiceQuestion {
	sentences := splitSentences(source)
	vocab := uniqueWords(source)

	out := make([]MultipleChoiceQuestion, 0, count)
	seen := make(map[string]bool)
	for i := 0; len(out) < count && i < count*4; i++ {
		if len(sentences) == 0 {
			break
		}
		sentence := sentences[i%len(sentences)]
		words := rankedWords(sentence)
		if len(words) == 0 {
			continue
		}
		answer := words[(i/len(sentences))%len(words)]
		stem := "Fill in the blank: " + strings.Replace(sentence, answer, "_____", 1)
		if seen[stem] {
			continue
		}
		seen[stem] = true

		out = append(out, MultipleChoiceQuestion{
			Question:    stem,
			Answer:      answer,
			Explanation: fmt.Sprintf("The source states: %q", sentence),
			Options:     optionsFor(answer, vocab, len(out)),
		})
	}

	// Source too thin to cut enough blanks from.
	for n := len(out); n < count; n++ {
		out = append(out, MultipleChoiceQuestion{
			Question:    fmt.Sprintf("Sample question %d: is this set generated offline?", n+1),
			Answer:      "Yes",
			Explanation: "The mock provider produced this set without calling a model.",
			Options:     []string{"Yes", "No", "Only in part", "Cannot tell"},
		})
	}
	return out
}

func splitSentences(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// rankedWords returns the blankable words of a sentence, longest first.
func rankedWords(sentence string) []string {
	words := wordPattern.FindAllString(sentence, -1)
	sort.SliceStable(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
	return words
}

func uniqueWords(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range wordPattern.FindAllString(text, -1) {
		key := strings.ToLower(w)
		if !seen[key] {
			seen[key] = true
			out = append(out, w)
		}
	}
	return out
}

var fillerOptions = []string{"energy", "structure", "process", "system", "pattern", "element"}

// optionsFor picks three distractors from vocab, padding from fillerOptions,
// and places the answer at a position that rotates with idx.
func optionsFor(answer string, vocab []string, idx int) []string {
	distractors := make([]string, 0, 3)
	used := map[string]bool{strings.ToLower(answer): true}
	pick := func(pool []string, offset int) {
		for k := range pool {
			if len(distractors) == 3 {
				return
			}
			w := pool[(k+offset)%len(pool)]
			if !used[strings.ToLower(w)] {
				used[strings.ToLower(w)] = true
				distractors = append(distractors, w)
			}
		}
	}
	if len(vocab) > 0 {
		pick(vocab, idx*3)
	}
	pick(fillerOptions, idx)

	pos := idx % (len(distractors) + 1)
	options := make([]string, 0, len(distractors)+1)
	options = append(options, distractors[:pos]...)
	options = append(options, answer)
	options = append(options, distractors[pos:]...)
	return options
}
