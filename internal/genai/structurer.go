package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"classtrack/internal/apperror"
	"classtrack/internal/clock"
	"classtrack/internal/timetable"
)

// maxPromptChars bounds how much extracted text goes into one prompt, to
// respect model context limits and keep cost predictable.
const maxPromptChars = 12000

const promptTemplate = `You are a timetable parser. The following is raw text extracted from a student timetable document.

Convert it into a valid JSON array of class slots. Each object must have exactly these keys:
- subject (string) — course name
- day (string) — one of: Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday
- time (string) — 24-hour format HH:MM e.g. "09:00"
- location (string) — room or venue, use "TBA" if unknown
- lecturer (string) — instructor name, use "TBA" if unknown

Rules:
- If a class repeats on multiple days, create one entry per day.
- Omit any rows that are clearly not a class (headers, footers, totals).
- Return ONLY a raw JSON array, no markdown fences, no explanation.

Raw text:
---
%s
---`

// Structurer turns extracted plain text into validated slot candidates via
// a generative text model.
type Structurer struct {
	gen Generator
}

// NewStructurer creates a structurer on top of any Generator.
func NewStructurer(gen Generator) *Structurer {
	return &Structurer{gen: gen}
}

// Structure sends rawText to the model under the strict JSON-array contract
// and parses the reply. The top-level shape must be a JSON array or the call
// fails; individual rows that do not validate are dropped, not coerced. The
// result can be empty — the caller decides how to surface that.
func (s *Structurer) Structure(ctx context.Context, rawText string) ([]timetable.Candidate, error) {
	if len(rawText) > maxPromptChars {
		cut := maxPromptChars
		// Back up so the cut never lands inside a multi-byte rune.
		for cut > 0 && !utf8.RuneStart(rawText[cut]) {
			cut--
		}
		rawText = rawText[:cut]
	}

	reply, err := s.gen.Generate(ctx, fmt.Sprintf(promptTemplate, rawText))
	if err != nil {
		return nil, err
	}

	cleaned := stripFences(strings.TrimSpace(reply))

	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &rows); err != nil {
		return nil, apperror.StructuringFailed(err, "AI response was not a JSON array")
	}

	candidates := make([]timetable.Candidate, 0, len(rows))
	for _, row := range rows {
		var c timetable.Candidate
		if err := json.Unmarshal(row, &c); err != nil {
			log.Printf("structurer: dropping malformed row: %v", err)
			continue
		}
		if !validCandidate(c) {
			log.Printf("structurer: dropping invalid row: subject=%q day=%q time=%q", c.Subject, c.Day, c.Time)
			continue
		}
		if c.Location == "" {
			c.Location = timetable.PlaceholderTBA
		}
		if c.Lecturer == "" {
			c.Lecturer = timetable.PlaceholderTBA
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func validCandidate(c timetable.Candidate) bool {
	return c.Subject != "" && clock.IsWeekday(c.Day) && clock.ValidHHMM(c.Time)
}

// stripFences removes accidental markdown code-fence wrapping from a model
// reply.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
