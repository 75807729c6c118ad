package message

import (
	"strings"
)

type Color int

const (
	ColorNone Color = iota
	ColorBlack
	ColorBlue
	ColorBrown
	ColorCyan
	ColorDarkBlue
	ColorDarkGreen
	ColorDarkGray
	ColorGreen
	ColorLightGray
	ColorMagenta
	ColorOlive
	ColorPurple
	ColorRed
	ColorTeal
	ColorWhite
	ColorYellow
)

var colorNames = map[Color]string{
	ColorNone:      "none",
	ColorBlack:     "black",
	ColorBlue:      "blue",
	ColorBrown:     "brown",
	ColorCyan:      "cyan",
	ColorDarkBlue:  "dark_blue",
	ColorDarkGreen: "dark_green",
	ColorDarkGray:  "dark_gray",
	ColorGreen:     "green",
	ColorLightGray: "light_gray",
	ColorMagenta:   "magenta",
	ColorOlive:     "olive",
	ColorPurple:    "purple",
	ColorRed:       "red",
	ColorTeal:      "teal",
	ColorWhite:     "white",
	ColorYellow:    "yellow",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "none"
}

// Colors returns the full palette, ColorNone included.
func Colors() []Color {
	colors := make([]Color, 0, len(colorNames))
	for c := ColorNone; c <= ColorYellow; c++ {
		colors = append(colors, c)
	}
	return colors
}

type Style int

const (
	StyleNormal Style = iota
	StyleBold
	StyleItalics
	StyleUnderline
)

func (s Style) String() string {
	switch s {
	case StyleBold:
		return "bold"
	case StyleItalics:
		return "italics"
	case StyleUnderline:
		return "underline"
	default:
		return "normal"
	}
}

// Message is one segment of a styled message chain. Segments are immutable,
// the chain is traversed from the first segment through Next.
type Message struct {
	color Color
	style Style
	text  string
	next  *Message
}

func (m *Message) Color() Color {
	return m.color
}

func (m *Message) Style() Style {
	return m.style
}

func (m *Message) Text() string {
	return m.text
}

func (m *Message) Next() *Message {
	return m.next
}

// Each calls fn for every segment in order.
func (m *Message) Each(fn func(segment *Message)) {
	for s := m; s != nil; s = s.next {
		fn(s)
	}
}

func (m *Message) Segments() []*Message {
	var segments []*Message
	m.Each(func(s *Message) {
		segments = append(segments, s)
	})
	return segments
}

// Render converts every segment and joins the results with a single space.
func (m *Message) Render(convert func(segment *Message) string) string {
	var b strings.Builder
	m.Each(func(s *Message) {
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(convert(s))
	})
	return b.String()
}

// Plain returns the segment text unchanged.
func Plain(m *Message) string {
	return m.text
}

// Markdown wraps the segment text in Discord flavoured markdown markers.
// Colors have no markdown representation and are dropped.
func Markdown(m *Message) string {
	marker := ""
	switch m.style {
	case StyleBold:
		marker = "**"
	case StyleItalics:
		marker = "*"
	case StyleUnderline:
		marker = "__"
	}
	return marker + m.text + marker
}

// Builder accumulates text into its current segment. Switching color or style
// after text was written starts a new segment, so Builder values must always
// be reassigned from the return value:
//
//	b := message.NewBuilder().Text("a")
//	b = b.Color(message.ColorRed).Text("b")
type Builder struct {
	parent *Builder
	color  Color
	style  Style
	text   strings.Builder
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Text is a convenience for NewBuilder().Text(text).Build().
func Text(text string) *Message {
	return NewBuilder().Text(text).Build()
}

func (b *Builder) Color(color Color) *Builder {
	if b.text.Len() != 0 {
		return (&Builder{parent: b}).Color(color)
	}
	b.color = color
	return b
}

func (b *Builder) Style(style Style) *Builder {
	if b.text.Len() != 0 {
		return (&Builder{parent: b}).Style(style)
	}
	b.style = style
	return b
}

func (b *Builder) Text(text string) *Builder {
	b.text.WriteString(text)
	return b
}

// Build materializes the chain, oldest segment first. Segments without text
// are left out; a builder that never received text builds to nil.
func (b *Builder) Build() *Message {
	return b.build(nil)
}

func (b *Builder) build(child *Message) *Message {
	msg := child
	if b.text.Len() != 0 {
		msg = &Message{
			color: b.color,
			style: b.style,
			text:  b.text.String(),
			next:  child,
		}
	}
	if b.parent != nil {
		return b.parent.build(msg)
	}
	return msg
}
