// Package livesync mirrors instance changes to a socket.io server so that
// connected editors can refresh or drop cached frames as parameters change.
//
// A Publisher is an instance.Observer. Each change is emitted as a
// "param_changed" event carrying a Message; the message's policy field tells
// the receiver how much of its cached timeline the change invalidates.
package livesync
