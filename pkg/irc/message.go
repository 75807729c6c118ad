package irc

import (
	"fmt"
	"strings"
)

// Message is one parsed protocol line.
type Message struct {
	Prefix  string
	Command string
	Params  []string
}

// ParseMessage parses a single line without its trailing CRLF.
func ParseMessage(line string) (*Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, fmt.Errorf("empty line")
	}

	m := &Message{}
	if strings.HasPrefix(line, ":") {
		end := strings.Index(line, " ")
		if end == -1 {
			return nil, fmt.Errorf("no command in %q", line)
		}
		m.Prefix = line[1:end]
		line = strings.TrimLeft(line[end+1:], " ")
	}

	trailing := ""
	hasTrailing := false
	if i := strings.Index(line, " :"); i != -1 {
		trailing = line[i+2:]
		hasTrailing = true
		line = line[:i]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no command in %q", line)
	}
	m.Command = strings.ToUpper(fields[0])
	m.Params = fields[1:]
	if hasTrailing {
		m.Params = append(m.Params, trailing)
	}

	return m, nil
}

// Nick is the nickname part of the prefix.
func (m *Message) Nick() string {
	if i := strings.IndexAny(m.Prefix, "!@"); i != -1 {
		return m.Prefix[:i]
	}
	return m.Prefix
}

func (m *Message) Param(i int) string {
	if i < len(m.Params) {
		return m.Params[i]
	}
	return ""
}

func (m *Message) String() string {
	var b strings.Builder
	if m.Prefix != "" {
		b.WriteString(":" + m.Prefix + " ")
	}
	b.WriteString(m.Command)
	for i, p := range m.Params {
		b.WriteString(" ")
		if i == len(m.Params)-1 && (p == "" || strings.Contains(p, " ") || strings.HasPrefix(p, ":")) {
			b.WriteString(":")
		}
		b.WriteString(p)
	}
	return b.String()
}
