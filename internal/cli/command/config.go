package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/pagekeep/internal/cli/output"
	"github.com/yndnr/pagekeep/internal/config"
)

// ConfigCommand returns the config command group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the merged configuration with secrets masked",
				Action: configShowAction,
			},
			{
				Name:   "validate",
				Usage:  "Check the configuration and exit",
				Action: configValidateAction,
			},
		},
	}
}

func configShowAction(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	safe := config.Sanitize(env.Config)

	// A config reads best as YAML; tables flatten the sections.
	if env.Format() == output.FormatTable {
		return output.NewFormatter(output.FormatYAML, false).Format(env.out, safe)
	}
	return env.Print(safe)
}

func configValidateAction(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	// newEnv already ran config.Verify.
	if path := c.String("config"); path != "" {
		env.Printf("%s: ok\n", path)
		return nil
	}
	env.Printf("configuration ok\n")
	return nil
}
