// Package yaml loads sdkdoc configuration files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/sdkdoc"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads the YAML file at path over sdkdoc.DefaultConfig and
// validates the result. An empty path returns the validated defaults.
func LoadConfig(path string) (sdkdoc.Config, error) {
	cfg := sdkdoc.DefaultConfig()
	if path == "" {
		return cfg, Validate(cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, sdkdoc.Errorf(sdkdoc.ENOTFOUND, "config file %s not found", path)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over sdkdoc.DefaultConfig. Unknown keys are
// rejected. Durations use Go syntax such as "300ms".
func ParseConfig(data []byte) (sdkdoc.Config, error) {
	cfg := sdkdoc.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, sdkdoc.Errorf(sdkdoc.EINVALID, "parse config: %v", err)
	}

	return cfg, Validate(cfg)
}

// Validate checks cfg against its struct tags.
func Validate(cfg sdkdoc.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return sdkdoc.Errorf(sdkdoc.EINTERNAL, "validate config: %v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Field() + " fails " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return sdkdoc.Errorf(sdkdoc.EINVALID, "invalid config: %s", strings.Join(msgs, "; "))
}

// Marshal renders cfg as YAML, used to write a starter config file.
func Marshal(cfg sdkdoc.Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
