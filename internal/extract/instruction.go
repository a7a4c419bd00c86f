package extract

import (
	"bytes"
	"fmt"
	"text/template"
)

var instructionTmpl = template.Must(template.New("instruction").Parse(`You read screenshots of NHS bank and agency shift listings and turn them into data.

Reply with a JSON array and nothing else. No prose, no markdown fences.

Rules:
1. One object per shift. When a listing covers a range such as "Mon 12 Dec - Thu 15 Dec, 4 shifts", emit 4 objects on consecutive days.
2. "status" is "booked" only when the listing is explicitly marked as applied, booked or confirmed. Otherwise it is "available".
3. "date" is ISO 8601 (YYYY-MM-DD). If the year is not shown, use {{.DefaultYear}}.
4. "rate" is the hourly rate as a number without currency symbols ("£28/hr" becomes 28). If no rate is shown, use "unknown".
5. "start" and "end" are 24 hour HH:MM. If a night shift shows no times, use {{.NightShiftStart}} and {{.NightShiftEnd}}. Any other missing time is "unknown".
6. Any other value that cannot be read is "unknown". Grades and specialties such as "Band 5" or "Emergency Medicine" belong in "ward".

Each object has exactly these keys:
[
  {
    "date": "{{.DefaultYear}}-12-12",
    "hospital": "St Thomas Hospital",
    "ward": "Emergency Medicine (Registrar)",
    "start": "09:00",
    "end": "17:00",
    "rate": "unknown",
    "status": "available"
  }
]
`))

// Instruction renders the prompt sent alongside every image.
func Instruction(cfg Config) (string, error) {
	var buf bytes.Buffer
	if err := instructionTmpl.Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("render instruction: %w", err)
	}
	return buf.String(), nil
}
