package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/testsdaw/backend/internal/domain/question"
)

// ErrUnexpectedFormat marks a JSON file without a "subjects" array. Such
// files are skipped, not fatal.
var ErrUnexpectedFormat = errors.New("seed file has no subjects array")

// ── Seed file shape ─────────────────────────────────────────────────────────

type File struct {
	Subjects []Subject `json:"subjects" validate:"dive"`
}

type Subject struct {
	Code   string  `json:"code" validate:"required"`
	Name   string  `json:"name" validate:"required"`
	Topics []Topic `json:"topics" validate:"dive"`
}

type Topic struct {
	Number    *int       `json:"number" validate:"omitempty,gt=0"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions" validate:"dive"`
}

type Question struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
	Explanation   string   `json:"explanation"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseFile reads one seed file and flattens it into catalog questions.
// It returns ErrUnexpectedFormat when the file has no subjects array.
func ParseFile(path string) ([]question.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	subjects, ok := raw["subjects"]
	if !ok || len(subjects) == 0 || subjects[0] != '[' {
		return nil, ErrUnexpectedFormat
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var out []question.Question
	for _, s := range f.Subjects {
		code := question.NormalizeSubject(s.Code)
		for _, t := range s.Topics {
			for i, q := range t.Questions {
				qq := question.Question{
					SubjectCode:   code,
					SubjectName:   s.Name,
					TopicNumber:   t.Number,
					TopicTitle:    t.Title,
					Text:          q.Text,
					Options:       q.Options,
					CorrectAnswer: q.CorrectAnswer,
					Explanation:   q.Explanation,
				}
				if !qq.HasOption(q.CorrectAnswer) {
					return nil, fmt.Errorf("%s: %s topic %s question %d: correct answer %q is not one of the options",
						path, code, topicLabel(t.Number), i+1, q.CorrectAnswer)
				}
				out = append(out, qq)
			}
		}
	}
	return out, nil
}

func topicLabel(n *int) string {
	if n == nil {
		return "final"
	}
	return fmt.Sprint(*n)
}

// Discover lists the *.json files found one level below dir, one
// sub-directory per subject. Files directly in dir are ignored.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		children, err := os.ReadDir(sub)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if c.IsDir() || !strings.HasSuffix(c.Name(), ".json") {
				continue
			}
			files = append(files, filepath.Join(sub, c.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
