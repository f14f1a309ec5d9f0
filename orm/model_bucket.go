package orm

import (
	"reflect"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrInvalidType
	// is returned.
	One(db custody.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with given primary key exists.
	Has(db custody.ReadOnlyKVStore, key []byte) (bool, error)

	// Put saves given model in the database.
	Put(db custody.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db custody.KVStore, key []byte) error

	// PrefixScan returns a lazy iterator over all entities whose primary
	// key starts with the given prefix, in key order.
	PrefixScan(db custody.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error)

	// Register registers this bucket for queries under the given name.
	Register(name string, r custody.QueryRouter)
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as the prototype under the bucket name prefix.
func NewModelBucket(name string, proto Model) ModelBucket {
	b := NewBucket(name, NewSimpleObj(nil, proto))
	return &modelBucket{
		b:     b,
		model: reflect.TypeOf(proto),
	}
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	return assign(obj.Value(), dest)
}

func (mb *modelBucket) Has(db custody.ReadOnlyKVStore, key []byte) (bool, error) {
	return mb.b.Has(db, key)
}

func (mb *modelBucket) Put(db custody.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be stored in %s bucket", m, mb.b.Name())
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	obj := NewSimpleObj(key, m)
	if err := mb.b.Save(db, obj); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db custody.KVStore, key []byte) error {
	has, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrapf(errors.ErrNotFound, "%s bucket", mb.b.Name())
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) PrefixScan(db custody.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error) {
	it, err := mb.b.PrefixIterator(db, prefix, reverse)
	if err != nil {
		return nil, err
	}
	return &modelIterator{
		iterator:     it,
		bucketPrefix: mb.b.DBKey(nil),
	}, nil
}

func (mb *modelBucket) Register(name string, r custody.QueryRouter) {
	mb.b.Register(name, r)
}

// assign copies the value of src into dest. Both must be pointers to the
// same model type.
func assign(src custody.Persistent, dest Model) error {
	if !reflect.TypeOf(src).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be represented as %T", src, dest)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(src).Elem())
	return nil
}
