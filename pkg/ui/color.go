package ui

import "fmt"

// Color represents a color that can be rendered as an SGR parameter.
type Color interface {
	fgSGR() string
	bgSGR() string
}

type ansiColor uint8

func (c ansiColor) fgSGR() string { return fmt.Sprint(30 + int(c)) }
func (c ansiColor) bgSGR() string { return fmt.Sprint(40 + int(c)) }

// The eight basic ANSI colors.
var (
	Black   Color = ansiColor(0)
	Red     Color = ansiColor(1)
	Green   Color = ansiColor(2)
	Yellow  Color = ansiColor(3)
	Blue    Color = ansiColor(4)
	Magenta Color = ansiColor(5)
	Cyan    Color = ansiColor(6)
	White   Color = ansiColor(7)
)

type trueColor struct{ r, g, b uint8 }

func (c trueColor) fgSGR() string {
	return fmt.Sprintf("38;2;%d;%d;%d", c.r, c.g, c.b)
}

func (c trueColor) bgSGR() string {
	return fmt.Sprintf("48;2;%d;%d;%d", c.r, c.g, c.b)
}

// RGB returns a 24-bit color.
func RGB(r, g, b uint8) Color { return trueColor{r, g, b} }
