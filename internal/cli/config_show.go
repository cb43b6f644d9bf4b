package cli

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/awhite/hostwatch/internal/errors"
)

// configShowCommand prints the effective configuration after flag overlays
// and defaults, as YAML.
func configShowCommand() error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't encode config", "")
	}

	fmt.Print(string(data))
	return nil
}
