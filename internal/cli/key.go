package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"trip-planner/internal/config"
)

// KeySetCmd stores the Google API key in the OS keyring
type KeySetCmd struct {
	Value string `help:"API key to store. Prompted for when empty."`
}

func (c *KeySetCmd) Run(ctx *Context) error {
	key := c.Value
	if key == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Google API key").
					EchoMode(huh.EchoModePassword).
					Value(&key).
					Validate(func(s string) error {
						if s == "" {
							return errors.New("API key cannot be empty")
						}
						return nil
					}),
			),
		).WithTheme(huh.ThemeDracula())

		if err := form.RunWithContext(ctx.Ctx); err != nil {
			return err
		}
	}

	if err := config.SetAPIKey(key); err != nil {
		return err
	}
	fmt.Println("✅ API key stored in the OS keyring")
	return nil
}

// KeyDeleteCmd removes the Google API key from the OS keyring
type KeyDeleteCmd struct{}

func (c *KeyDeleteCmd) Run(ctx *Context) error {
	if err := config.DeleteAPIKey(); err != nil {
		return err
	}
	fmt.Println("✅ API key removed from the OS keyring")
	return nil
}
