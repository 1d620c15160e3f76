package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxTracks < 1 {
		return errors.New("max_tracks must be at least 1")
	}
	if c.Frames < 1 {
		return errors.New("frames must be at least 1")
	}
	if c.KeyframeInterval < 1 {
		return errors.New("keyframe_interval must be at least 1")
	}
	if c.ReportInterval < 1 {
		return errors.New("report_interval must be at least 1")
	}
	if err := c.validateRenditions(); err != nil {
		return err
	}
	if c.Capture.Enabled && strings.TrimSpace(c.Capture.Path) == "" {
		return errors.New("capture.path must be set when capture is enabled")
	}
	return nil
}

func (c *Config) validateRenditions() error {
	if len(c.Renditions) == 0 {
		return errors.New("at least one rendition must be configured")
	}
	if len(c.Renditions) > c.MaxTracks {
		return fmt.Errorf("%d renditions configured but max_tracks is %d", len(c.Renditions), c.MaxTracks)
	}

	seen := make(map[string]struct{}, len(c.Renditions))
	for i, rendition := range c.Renditions {
		fingerprint := strings.TrimSpace(rendition.Fingerprint)
		if fingerprint == "" {
			return fmt.Errorf("rendition %d: fingerprint must be set", i)
		}
		if _, ok := seen[fingerprint]; ok {
			return fmt.Errorf("rendition %d: duplicate fingerprint %q", i, fingerprint)
		}
		seen[fingerprint] = struct{}{}
		if rendition.EveryNth < 1 {
			return fmt.Errorf("rendition %q: every_nth must be at least 1", fingerprint)
		}
		if rendition.LagEvery < 0 || rendition.DropEvery < 0 {
			return fmt.Errorf("rendition %q: lag_every and drop_every must not be negative", fingerprint)
		}
	}
	return nil
}
