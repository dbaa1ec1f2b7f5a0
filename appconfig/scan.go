package appconfig

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the current merged mapping into the target struct or map.
// The target must be a non-nil pointer. Fields are matched by the "config"
// struct tag (falling back to the field name, case-insensitively), and
// string values re-parse weakly into the target's field types, so
// environment-sourced overrides decode into their intended types.
func (r *Resolver) Scan(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target of Scan must be a non-nil pointer, got %T", target)
	}

	r.mutex.RLock()
	snapshot := make(map[string]any, len(r.values))
	for k, v := range r.values {
		snapshot[k] = v
	}
	r.mutex.RUnlock()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(snapshot); err != nil {
		return fmt.Errorf("failed to scan config into %T: %w", target, err)
	}

	return nil
}
