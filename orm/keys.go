package orm

import (
	"github.com/callora/custody/errors"
)

// MaxInstanceIDLength is the longest accepted instance identifier.
const MaxInstanceIDLength = 64

// ValidateInstanceID returns an error if the identifier cannot be used to
// scope stored state.
func ValidateInstanceID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "instance id")
	}
	if len(id) > MaxInstanceIDLength {
		return errors.Wrapf(errors.ErrInvalidArgument, "instance id longer than %d bytes", MaxInstanceIDLength)
	}
	return nil
}

// InstancePrefix returns the key prefix shared by every entity owned by
// the given instance. The identifier is length prefixed so that no
// instance prefix is a prefix of another instance prefix.
func InstancePrefix(instance []byte) []byte {
	out := make([]byte, 0, 1+len(instance))
	out = append(out, byte(len(instance)))
	return append(out, instance...)
}

// CompositeKey returns the primary key of an entity owned by an instance.
func CompositeKey(instance, key []byte) []byte {
	prefix := InstancePrefix(instance)
	out := make([]byte, 0, len(prefix)+len(key))
	out = append(out, prefix...)
	return append(out, key...)
}

// SplitCompositeKey returns the entity part of a composite key created for
// the given instance.
func SplitCompositeKey(instance, key []byte) ([]byte, error) {
	prefix := InstancePrefix(instance)
	if len(key) < len(prefix) || string(key[:len(prefix)]) != string(prefix) {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "key does not belong to the instance")
	}
	return key[len(prefix):], nil
}
