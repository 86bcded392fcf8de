// pkg/overlay/properties.go - Typed view over free-form feature properties
package overlay

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Recognised type_name values
const (
	TypePath  = "path"
	TypeLabel = "label"
)

// Properties is the typed schema the pipeline reads from a feature's
// property map. Unknown keys are ignored.
type Properties struct {
	TypeName        string    `mapstructure:"type_name"`
	IconImage       string    `mapstructure:"iconImage"`
	IconURL         string    `mapstructure:"iconUrl"`
	IconSize        []float64 `mapstructure:"iconSize"`
	IconAnchor      []float64 `mapstructure:"iconAnchor"`
	Rotation        *float64  `mapstructure:"rotation"`
	Name            string    `mapstructure:"Name"`
	Title           string    `mapstructure:"title"`
	Area            *float64  `mapstructure:"area"`
	RoadCenterColor string    `mapstructure:"road_center_color"`

	Style `mapstructure:",squash"`
}

// DecodeProperties converts a raw property map into Properties. Values are
// coerced where possible ("12" decodes into a number). A value that cannot
// be coerced leaves its field unset; the returned Properties still carries
// every other field, and the error lists what was skipped. Falsy scalars
// (false, 0, NaN, "") count as absent rather than being coerced.
func DecodeProperties(raw map[string]interface{}) (Properties, error) {
	var props Properties
	if len(raw) == 0 {
		return props, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &props,
		DecodeHook:       dropFalsy,
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
	})
	if err != nil {
		return props, fmt.Errorf("failed to create property decoder: %w", err)
	}

	if err := decoder.Decode(map[string]interface{}(raw)); err != nil {
		return props, fmt.Errorf("failed to decode properties: %w", err)
	}
	return props, nil
}

// dropFalsy strips falsy scalars from the property map before weak typing
// can turn false into "0".
func dropFalsy(_, to reflect.Type, data interface{}) (interface{}, error) {
	raw, ok := data.(map[string]interface{})
	if !ok || to.Kind() != reflect.Struct {
		return data, nil
	}
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if !falsy(v) {
			out[k] = v
		}
	}
	return out, nil
}

func falsy(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	}
	return false
}

// HasIcon reports whether the feature carries an icon image.
func (p Properties) HasIcon() bool {
	return p.IconImage != ""
}

// DisplayName returns Name, falling back to title.
func (p Properties) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Title
}

// truthy mirrors how the renderer treats optional values: empty strings,
// zero and non-finite numbers count as absent.
func truthyString(s *string) bool {
	return s != nil && *s != ""
}

func truthyNumber(f *float64) bool {
	return f != nil && *f != 0 && !math.IsNaN(*f) && !math.IsInf(*f, 0)
}
