package text

import "strings"

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize приводит сырой текст к каноническому многострочному виду:
// переводы строк — только "\n", пробелы по краям текста и каждой строки убраны,
// серия пустых строк схлопывается в одну (разделитель абзацев).
func Normalize(raw string) string {
	s := strings.TrimSpace(newlines.Replace(raw))
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	lastBlank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !lastBlank {
				out = append(out, "")
			}
			lastBlank = true
			continue
		}
		out = append(out, line)
		lastBlank = false
	}
	return strings.Join(out, "\n")
}
