// Package ui holds the styling model shared by highlighting and the
// terminal output helpers.
package ui

import "strings"

// Style specifies how a span of text shall be displayed.
type Style struct {
	Foreground Color
	Background Color
	Bold       bool
	Dim        bool
	Italic     bool
	Underlined bool
	Inverse    bool
	// Hyperlink, when non-empty, wraps the span in an OSC 8 hyperlink
	// pointing at the URL.
	Hyperlink string
}

// SGR returns the SGR sequence parameters for the style.
func (s Style) SGR() string {
	var sgr []string

	addIf := func(b bool, code string) {
		if b {
			sgr = append(sgr, code)
		}
	}
	addIf(s.Bold, "1")
	addIf(s.Dim, "2")
	addIf(s.Italic, "3")
	addIf(s.Underlined, "4")
	addIf(s.Inverse, "7")
	if s.Foreground != nil {
		sgr = append(sgr, s.Foreground.fgSGR())
	}
	if s.Background != nil {
		sgr = append(sgr, s.Background.bgSGR())
	}

	return strings.Join(sgr, ";")
}

// Merge overlays another style on top of this one; set attributes of the
// other style win.
func (s Style) Merge(other Style) Style {
	if other.Foreground != nil {
		s.Foreground = other.Foreground
	}
	if other.Background != nil {
		s.Background = other.Background
	}
	s.Bold = s.Bold || other.Bold
	s.Dim = s.Dim || other.Dim
	s.Italic = s.Italic || other.Italic
	s.Underlined = s.Underlined || other.Underlined
	s.Inverse = s.Inverse || other.Inverse
	if other.Hyperlink != "" {
		s.Hyperlink = other.Hyperlink
	}
	return s
}

// Render wraps text in the escape sequences the style calls for: CSI SGR
// for attributes and OSC 8 for hyperlinks.
func (s Style) Render(text string) string {
	out := text
	if sgr := s.SGR(); sgr != "" {
		out = "\033[" + sgr + "m" + out + "\033[m"
	}
	if s.Hyperlink != "" {
		out = "\033]8;;" + s.Hyperlink + "\033\\" + out + "\033]8;;\033\\"
	}
	return out
}

// FileURL builds the file:// URL for a path, anchored at a hostname.
func FileURL(host, path string) string {
	return "file://" + host + path
}
