package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/dokuhost/dokuhost/internal/term"
)

type promptField struct {
	title    string
	value    *string
	secret   bool
	optional bool
}

func required(s string) error {
	if s == "" {
		return errors.New("this field is required")
	}
	return nil
}

// promptMissing asks for every field that has no value yet. Without a
// terminal, missing required fields are an error.
func promptMissing(fields ...promptField) error {
	var inputs []huh.Field
	for _, f := range fields {
		if *f.value != "" {
			continue
		}

		if !term.IsTerminal(os.Stdin) {
			if f.optional {
				continue
			}
			return fmt.Errorf("%s is required", f.title)
		}

		input := huh.NewInput().Title(f.title).Value(f.value)
		if f.secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		if !f.optional {
			input = input.Validate(required)
		}

		inputs = append(inputs, input)
	}

	if len(inputs) == 0 {
		return nil
	}

	return huh.NewForm(huh.NewGroup(inputs...)).Run()
}
