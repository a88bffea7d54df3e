package config

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

// requiredKeys must be present in every archive configuration document.
var requiredKeys = []string{
	"archive_configuration.archive_threshold",
	"archive_configuration.notification_period",
	"archive_configuration.notification_issue_tag",
	"archive_configuration.exemption_filename",
	"archive_configuration.maximum_notifications",
}

// strictDecoding turns off viper's weak typing: a quoted number, a boolean in an
// integer field or a number in a string field is an error, not a conversion.
func strictDecoding(c *mapstructure.DecoderConfig) {
	c.WeaklyTypedInput = false
	c.DecodeHook = documentHook
}

var stringSliceType = reflect.TypeOf([]string(nil))

// documentHook accepts the two shapes JSON gives us that the target types do not
// spell out: a single file name where a list is expected, and whole-valued
// numbers (JSON numbers arrive as float64) for integer fields.
func documentHook(from, to reflect.Type, data any) (any, error) {
	switch {
	case from.Kind() == reflect.String && to == stringSliceType:
		return []string{reflect.ValueOf(data).String()}, nil
	case from.Kind() == reflect.Float64 && to.Kind() == reflect.Int:
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("expected a whole number, got %v", f)
		}
		return int(f), nil
	}
	return data, nil
}

// readDocument parses a JSON document into a fresh viper instance.
func readDocument(r io.Reader) (*viper.Viper, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration document: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("configuration document is empty")
	}
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("configuration document is not a JSON object: %w", err)
	}
	return v, nil
}

// decodeSettings reads and validates a full configuration document.
// Missing keys and mistyped values are errors; nothing falls back to a default
// except the feature flags, which are off unless set.
func decodeSettings(r io.Reader, source string) (*domain.Settings, error) {
	v, err := readDocument(r)
	if err != nil {
		return nil, &domain.ConfigurationError{Source: source, Err: err}
	}
	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			return nil, &domain.ConfigurationError{Source: source, Err: fmt.Errorf("key %s not found in the configuration document", key)}
		}
	}

	var settings domain.Settings
	if err := v.Unmarshal(&settings, strictDecoding); err != nil {
		return nil, &domain.ConfigurationError{Source: source, Err: fmt.Errorf("invalid value in configuration document: %w", err)}
	}
	if err := settings.Archive.Validate(); err != nil {
		return nil, &domain.ConfigurationError{Source: source, Err: err}
	}
	return &settings, nil
}

// decodeFeatures reads only the feature flags, so a local document that merely
// points at the remote store does not need an archive section.
func decodeFeatures(r io.Reader, source string) (domain.Features, error) {
	v, err := readDocument(r)
	if err != nil {
		return domain.Features{}, &domain.ConfigurationError{Source: source, Err: err}
	}
	var features domain.Features
	if err := v.UnmarshalKey("features", &features, strictDecoding); err != nil {
		return domain.Features{}, &domain.ConfigurationError{Source: source, Err: fmt.Errorf("invalid value in configuration document: %w", err)}
	}
	return features, nil
}
