// Package tui provides terminal user interface components for gitmate.
//
// This file provides the interactive prompts built on Charm Huh: Select,
// Confirm, and Input. All of them return ErrMenuCanceled when the user
// presses Esc or when stdin is not a terminal.
package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
)

// Terminal layout constants.
const (
	// DefaultMenuWidth is the widest a prompt renders.
	DefaultMenuWidth = 80

	// TerminalEdgeMargin is the padding kept between prompts and the terminal edge.
	TerminalEdgeMargin = 4

	// MinMenuWidth is the minimum usable prompt width.
	MinMenuWidth = 40
)

// ErrMenuCanceled is returned when the user cancels a prompt.
var ErrMenuCanceled = gmerrors.ErrMenuCanceled

// Option is one selectable menu entry.
type Option struct {
	// Label is the display text.
	Label string
	// Description is optional help text appended to the label.
	Description string
	// Value is returned when the option is chosen.
	Value string
}

// MenuConfig holds prompt settings.
type MenuConfig struct {
	Width        int
	Accessible   bool
	ShowKeyHints bool
}

// MenuConfigOption is a functional option for MenuConfig.
type MenuConfigOption func(*MenuConfig)

// WithMenuAccessible enables or disables screen-reader mode.
func WithMenuAccessible(enabled bool) MenuConfigOption {
	return func(c *MenuConfig) {
		c.Accessible = enabled
	}
}

// NewMenuConfig creates a MenuConfig. Accessible mode follows the ACCESSIBLE
// environment variable.
func NewMenuConfig(opts ...MenuConfigOption) *MenuConfig {
	_, accessible := os.LookupEnv("ACCESSIBLE")
	c := &MenuConfig{
		Width:        DefaultMenuWidth,
		Accessible:   accessible,
		ShowKeyHints: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
}

// adaptWidth fits maxWidth to the terminal, keeping at least MinMenuWidth.
func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
	if err != nil || width <= 0 {
		if maxWidth <= 0 {
			return DefaultMenuWidth
		}
		return maxWidth
	}

	available := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < available {
		return maxWidth
	}
	if available < MinMenuWidth {
		return MinMenuWidth
	}
	return available
}

// runFormWithConfig runs a single-field form. Without a terminal it returns
// ErrMenuCanceled instead of blocking.
func runFormWithConfig(field huh.Field, cfg *MenuConfig, errorContext string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec // fd fits in int
		return ErrMenuCanceled
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(GitmateTheme()).
		WithWidth(adaptWidth(cfg.Width)).
		WithAccessible(cfg.Accessible).
		WithShowHelp(cfg.ShowKeyHints)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrMenuCanceled
		}
		return fmt.Errorf("%s: %w", errorContext, err)
	}
	return nil
}

// GitmateTheme returns the Huh base theme recolored with the semantic colors.
func GitmateTheme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPrimary)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(ColorSuccess)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	return t
}

// Select presents a single-selection menu and returns the chosen value.
func Select(title string, options []Option, opts ...MenuConfigOption) (string, error) {
	return SelectWithConfig(title, options, NewMenuConfig(opts...))
}

// SelectWithConfig is Select with explicit configuration.
func SelectWithConfig(title string, options []Option, cfg *MenuConfig) (string, error) {
	if len(options) == 0 {
		return "", gmerrors.ErrNoMenuOptions
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		label := opt.Label
		if opt.Description != "" {
			label = opt.Label + " - " + opt.Description
		}
		huhOptions[i] = huh.NewOption(label, opt.Value)
	}

	var selected string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)

	if err := runFormWithConfig(field, cfg, "select menu failed"); err != nil {
		return "", err
	}
	return selected, nil
}

// Confirm presents a yes/no prompt.
func Confirm(message string, defaultYes bool, opts ...MenuConfigOption) (bool, error) {
	confirmed := defaultYes
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := runFormWithConfig(field, NewMenuConfig(opts...), "confirm prompt failed"); err != nil {
		return false, err
	}
	return confirmed, nil
}

// Input presents a single-line text prompt.
func Input(prompt, defaultValue string, opts ...MenuConfigOption) (string, error) {
	return InputWithValidation(prompt, defaultValue, nil, opts...)
}

// InputWithValidation presents a text prompt that re-asks until validate
// returns nil. A nil validate accepts anything.
func InputWithValidation(prompt, defaultValue string, validate func(string) error, opts ...MenuConfigOption) (string, error) {
	value := defaultValue
	field := huh.NewInput().
		Title(prompt).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}

	if err := runFormWithConfig(field, NewMenuConfig(opts...), "input prompt failed"); err != nil {
		return "", err
	}
	return value, nil
}
