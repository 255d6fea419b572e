package config

import "github.com/javanhut/raventerm/termcolor"

// ThemeOption describes an available UI theme.
type ThemeOption struct {
	Name  string
	Label string
}

// ThemeOptions lists the available themes for the UI.
func ThemeOptions() []ThemeOption {
	return []ThemeOption{
		{Name: "raven-blue", Label: "Raven Blue"},
		{Name: "crow-black", Label: "Crow Black"},
		{Name: "magpie-black-white-grey", Label: "Magpie Black/White/Grey"},
		{Name: "catppuccin-mocha", Label: "Catppuccin Mocha"},
	}
}

// ThemeLabel returns the display label for a theme name.
func ThemeLabel(name string) string {
	for _, opt := range ThemeOptions() {
		if opt.Name == name {
			return opt.Label
		}
	}
	if name == "" {
		return "Raven Blue"
	}
	return name
}

// Colors holds the window-chrome colors a named theme supplies: the
// surface drawn behind the grid and the color the cursor block is
// drawn with. These are independent of the ANSI 16/256-color
// palette a program running inside the terminal sees.
type Colors struct {
	Background termcolor.Color
	Foreground termcolor.Color
	Cursor     termcolor.Color
}

// ColorsForTheme returns the window-chrome colors for a named theme,
// falling back to raven-blue for unknown names.
func ColorsForTheme(name string) Colors {
	switch name {
	case "crow-black":
		return Colors{
			Background: termcolor.TrueColor(5, 5, 5),
			Foreground: termcolor.TrueColor(230, 230, 230),
			Cursor:     termcolor.TrueColor(246, 246, 246),
		}
	case "magpie-black-white-grey", "magpie-black-and-white-grey":
		return Colors{
			Background: termcolor.TrueColor(17, 17, 17),
			Foreground: termcolor.TrueColor(245, 245, 245),
			Cursor:     termcolor.TrueColor(255, 255, 255),
		}
	case "catppuccin-mocha", "catppuccin", "catpuccin":
		return Colors{
			Background: termcolor.TrueColor(30, 30, 46),
			Foreground: termcolor.TrueColor(205, 214, 244),
			Cursor:     termcolor.TrueColor(245, 194, 231),
		}
	case "raven-blue", "":
		fallthrough
	default:
		return Colors{
			Background: termcolor.TrueColor(13, 16, 26),
			Foreground: termcolor.TrueColor(232, 237, 247),
			Cursor:     termcolor.TrueColor(162, 224, 199),
		}
	}
}
