package notifications

import (
	"regexp"

	"github.com/gimlet-io/hookcast/pkg/message"
)

const (
	ircBold      = "\x02"
	ircColor     = "\x03"
	ircReset     = "\x0f"
	ircItalics   = "\x1d"
	ircUnderline = "\x1f"
)

var (
	ircPlaceholder = regexp.MustCompile(`\$\(([a-z_]+\.[a-z_]+)\)`)
	ircCodes       = regexp.MustCompile("\x03(\\d{1,2}(,\\d{1,2})?)?|[\x01\x02\x0f\x11\x16\x1d\x1e\x1f]")
)

// Palette translates message colors and styles into IRC control codes. It is
// built once and only read afterwards.
type Palette struct {
	colors       map[message.Color]string
	placeholders map[string]string
}

func NewPalette() *Palette {
	colors := map[message.Color]string{
		message.ColorWhite:     ircColor + "00",
		message.ColorBlack:     ircColor + "01",
		message.ColorDarkBlue:  ircColor + "02",
		message.ColorDarkGreen: ircColor + "03",
		message.ColorRed:       ircColor + "04",
		message.ColorBrown:     ircColor + "05",
		message.ColorPurple:    ircColor + "06",
		message.ColorOlive:     ircColor + "07",
		message.ColorYellow:    ircColor + "08",
		message.ColorGreen:     ircColor + "09",
		message.ColorTeal:      ircColor + "10",
		message.ColorCyan:      ircColor + "11",
		message.ColorBlue:      ircColor + "12",
		message.ColorMagenta:   ircColor + "13",
		message.ColorDarkGray:  ircColor + "14",
		message.ColorLightGray: ircColor + "15",
	}

	placeholders := map[string]string{
		"color.none":      ircReset,
		"style.bold":      ircBold,
		"style.italics":   ircItalics,
		"style.underline": ircUnderline,
		"style.normal":    ircReset,
		"style.reset":     ircReset,
	}
	for c, code := range colors {
		placeholders["color."+c.String()] = code
	}

	return &Palette{colors: colors, placeholders: placeholders}
}

// Expand replaces $(color.<name>) and $(style.<name>) placeholders. Unknown
// placeholders are left untouched.
func (p *Palette) Expand(template string) string {
	return ircPlaceholder.ReplaceAllStringFunc(template, func(match string) string {
		if code, ok := p.placeholders[match[2:len(match)-1]]; ok {
			return code
		}
		return match
	})
}

// Convert renders one message segment. Control codes inside the segment text
// are removed so only the segment's own color and style apply.
func (p *Palette) Convert(m *message.Message) string {
	prefix := p.colors[m.Color()]
	switch m.Style() {
	case message.StyleBold:
		prefix += ircBold
	case message.StyleItalics:
		prefix += ircItalics
	case message.StyleUnderline:
		prefix += ircUnderline
	}

	text := StripCodes(m.Text())
	if prefix == "" {
		return text
	}
	return prefix + text + ircReset
}

// StripCodes removes IRC formatting and color codes from text.
func StripCodes(text string) string {
	return ircCodes.ReplaceAllString(text, "")
}
