package gconf

import (
	"reflect"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// OwnedConfig must have an Owner field. A configuration update must be
// signed by the owner in order to be authorized to apply the change.
type OwnedConfig interface {
	Configuration
	GetOwner() quorum.Pubkey
}

// Patch applies the non zero fields of payload to the configuration of
// given package. The current configuration is loaded into config, which
// must be of the same type as payload.
//
// signed reports whether a key signed the instruction. The change is
// authorized only if the current configuration owner signed. A
// configuration without an owner cannot be changed and a configuration
// that does not exist cannot be created this way, it must come from the
// genesis file.
func Patch(db Store, pkg string, signed func(quorum.Pubkey) bool, config, payload OwnedConfig) error {
	switch err := Load(db, pkg, config); {
	case err == nil:
		owner := config.GetOwner()
		if owner.IsZero() {
			return errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
		}
		if !signed(owner) {
			return errors.Wrap(errors.ErrUnauthorized, "owner did not sign")
		}
	case errors.ErrNotFound.Is(err):
		return errors.Wrap(errors.ErrUnauthorized, "configuration does not exist and cannot be initialized")
	default:
		return errors.Wrap(err, "load current configuration")
	}

	if err := patch(config, payload); err != nil {
		return errors.Wrap(err, "cannot patch config")
	}
	if err := Save(db, pkg, config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

func patch(config OwnedConfig, payload OwnedConfig) error {
	pType := reflect.TypeOf(payload)
	cType := reflect.TypeOf(config)
	if pType != cType || cType.Kind() != reflect.Ptr || cType.Elem().Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrType, "cannot patch %T with %T", config, payload)
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()

	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)

		// Zero values do not update the original configuration.
		if isZero(got) {
			continue
		}

		cval.Field(i).Set(got)
	}

	return nil
}

// isZero returns true if given value represents a zero value of a given type.
func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}
