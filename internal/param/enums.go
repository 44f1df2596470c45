package param

import "fmt"

// CacheInvalidation tells a downstream cache how much of its timeline a value
// change makes stale. The parameter system only carries the policy.
type CacheInvalidation int

const (
	// InvalidateValueChange invalidates only the sample at the changed time.
	InvalidateValueChange CacheInvalidation = iota
	// InvalidateValueChangeToEnd invalidates the changed sample and everything after it.
	InvalidateValueChangeToEnd
	// InvalidateAll invalidates the whole cached timeline.
	InvalidateAll
)

var cacheInvalidationNames = [...]string{
	InvalidateValueChange:      "value_change",
	InvalidateValueChangeToEnd: "value_change_to_end",
	InvalidateAll:              "all",
}

func (c CacheInvalidation) String() string {
	if c < 0 || int(c) >= len(cacheInvalidationNames) {
		return fmt.Sprintf("CacheInvalidation(%d)", int(c))
	}
	return cacheInvalidationNames[c]
}

func ParseCacheInvalidation(s string) (CacheInvalidation, error) {
	for i, name := range cacheInvalidationNames {
		if name == s {
			return CacheInvalidation(i), nil
		}
	}
	return InvalidateValueChange, fmt.Errorf("unknown cache invalidation %q", s)
}

// KeySearch selects which key KeyIndex returns relative to a time.
type KeySearch int

const (
	// SearchBackward finds the nearest key at or before the time.
	SearchBackward KeySearch = iota
	// SearchNear finds the closest key by absolute distance, ties going to the earlier key.
	SearchNear
	// SearchForward finds the nearest key at or after the time.
	SearchForward
)

var keySearchNames = [...]string{
	SearchBackward: "backward",
	SearchNear:     "near",
	SearchForward:  "forward",
}

func (k KeySearch) String() string {
	if k < 0 || int(k) >= len(keySearchNames) {
		return fmt.Sprintf("KeySearch(%d)", int(k))
	}
	return keySearchNames[k]
}

func ParseKeySearch(s string) (KeySearch, error) {
	for i, name := range keySearchNames {
		if name == s {
			return KeySearch(i), nil
		}
	}
	return SearchBackward, fmt.Errorf("unknown key search %q", s)
}

// StringType is a presentation hint for string parameters.
type StringType int

const (
	StringSingleLine StringType = iota
	StringMultiLine
	StringFilePath
	StringDirectoryPath
	StringLabel
)

var stringTypeNames = [...]string{
	StringSingleLine:    "single_line",
	StringMultiLine:     "multi_line",
	StringFilePath:      "file_path",
	StringDirectoryPath: "directory_path",
	StringLabel:         "label",
}

func (s StringType) String() string {
	if s < 0 || int(s) >= len(stringTypeNames) {
		return fmt.Sprintf("StringType(%d)", int(s))
	}
	return stringTypeNames[s]
}

func ParseStringType(s string) (StringType, error) {
	for i, name := range stringTypeNames {
		if name == s {
			return StringType(i), nil
		}
	}
	return StringSingleLine, fmt.Errorf("unknown string type %q", s)
}

// DoubleType says how a host should interpret (and possibly rescale) a
// double parameter.
type DoubleType int

const (
	DoublePlain DoubleType = iota
	DoubleAngle
	DoubleScale
	DoubleTime
	DoubleAbsoluteTime
	DoubleNormalisedX
	DoubleNormalisedY
	DoubleNormalisedXAbsolute
	DoubleNormalisedYAbsolute
	DoubleNormalisedXY
	DoubleNormalisedXYAbsolute
)

var doubleTypeNames = [...]string{
	DoublePlain:                "plain",
	DoubleAngle:                "angle",
	DoubleScale:                "scale",
	DoubleTime:                 "time",
	DoubleAbsoluteTime:         "absolute_time",
	DoubleNormalisedX:          "normalised_x",
	DoubleNormalisedY:          "normalised_y",
	DoubleNormalisedXAbsolute:  "normalised_x_absolute",
	DoubleNormalisedYAbsolute:  "normalised_y_absolute",
	DoubleNormalisedXY:         "normalised_xy",
	DoubleNormalisedXYAbsolute: "normalised_xy_absolute",
}

func (d DoubleType) String() string {
	if d < 0 || int(d) >= len(doubleTypeNames) {
		return fmt.Sprintf("DoubleType(%d)", int(d))
	}
	return doubleTypeNames[d]
}

func ParseDoubleType(s string) (DoubleType, error) {
	for i, name := range doubleTypeNames {
		if name == s {
			return DoubleType(i), nil
		}
	}
	return DoublePlain, fmt.Errorf("unknown double type %q", s)
}
