// Package curve implements the value/animation contract of a value-holding
// parameter: a single static value that is used while the parameter has no
// keys, and an ordered set of keyframes, strictly increasing in time, that
// takes over once the first key is set.
//
// Values are cty values of the parameter kind's value type. Kinds that
// interpolate are blended linearly between keys (integer kinds round to the
// nearest whole number); the remaining kinds hold the earlier key's value.
// Outside the keyed range the boundary key's value is held, so evaluation
// is monotone between keys and deterministic for a fixed set of keys.
//
// A Track is not safe for concurrent use.
package curve
