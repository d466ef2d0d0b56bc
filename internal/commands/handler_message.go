package commands

import (
	"fmt"
)

// validateMessage checks the optional "message" template of a config.
func validateMessage(config map[string]any) error {
	raw, ok := config["message"]
	if !ok {
		return nil
	}
	msg, ok := raw.(string)
	if !ok {
		return fmt.Errorf("message must be a string")
	}
	return checkTemplate(msg)
}

// messageFrom returns the config's "message" template, or fallback.
func messageFrom(config map[string]any, fallback string) string {
	if msg, ok := config["message"].(string); ok {
		return msg
	}
	return fallback
}

// render expands msg against the session as it is now. edit may adjust the
// data first.
func render(s *Session, inputs map[string]any, msg string, edit func(*TemplateData)) (string, error) {
	data := newTemplateData(s, inputs)
	if edit != nil {
		edit(data)
	}
	out, err := ExpandTemplate(msg, data)
	if err != nil {
		return "", fmt.Errorf("expanding message template: %w", err)
	}
	return out, nil
}

// intConfig reads an integer config value. YAML numbers decode as int.
func intConfig(config map[string]any, key string) (int, error) {
	raw, ok := config[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}
