package config

import (
	"errors"
	"fmt"
	"os"

	"fashion-show/show"
)

// PermutationTable builds the play order table over the model keys.
func (c *Config) PermutationTable() (*show.PermutationTable, error) {
	return show.NewPermutationTable(c.ModelKeys(), c.Permutations)
}

// OverlapPolicy parses the overlap setting.
func (c *Config) OverlapPolicy() (show.OverlapPolicy, error) {
	return show.ParseOverlapPolicy(c.Overlap)
}

// Validate checks the settings that do not need the file system.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Models) == 0 {
		errs = append(errs, errors.New("no runway models configured"))
	}
	if _, err := c.PermutationTable(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.OverlapPolicy(); err != nil {
		errs = append(errs, err)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume %v outside [0, 1]", c.Audio.Volume))
	}
	if c.Assets.Retries < 0 {
		errs = append(errs, fmt.Errorf("asset retries %d is negative", c.Assets.Retries))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d is not positive", c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}

// AssetFiles lists every file the show reads, resolved against the asset
// root.
func (c *Config) AssetFiles() []string {
	rel := []string{
		c.Room.Wall, c.Room.Floor, c.Room.Ceiling,
		c.Smoke.Texture,
		c.Stage.Path,
		c.Audience.Path, c.Audience.Texture,
	}
	for _, m := range c.Models {
		rel = append(rel, m.Path)
	}
	if !c.Audio.Disabled {
		rel = append(rel, c.Audio.Path)
	}

	var out []string
	for _, r := range rel {
		if r != "" {
			out = append(out, c.AssetPath(r))
		}
	}
	return out
}

// MissingAssets returns the asset files that cannot be found.
func (c *Config) MissingAssets() []string {
	var missing []string
	for _, p := range c.AssetFiles() {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	return missing
}
