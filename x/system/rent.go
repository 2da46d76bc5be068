package system

import (
	"math/bits"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/gconf"
)

// ConfigPkg is the name under which the Rent is stored by gconf.
const ConfigPkg = "system"

// Rent defines the minimum balance an account must hold to retain its
// storage.
type Rent struct {
	// Owner can change the configuration.
	Owner               quorum.Pubkey `json:"owner"`
	LamportsPerByteYear uint64        `json:"lamports_per_byte_year"`
	ExemptionYears      uint64        `json:"exemption_years"`
	// AccountOverhead is the number of bytes charged for every account
	// on top of its storage.
	AccountOverhead uint64 `json:"account_overhead"`
}

var _ gconf.OwnedConfig = (*Rent)(nil)

// DefaultRent is used when no configuration was stored.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionYears:      2,
		AccountOverhead:     128,
	}
}

// Validate implements gconf.Configuration.
func (r *Rent) Validate() error {
	if r.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrEmpty, "lamports per byte year")
	}
	if r.ExemptionYears == 0 {
		return errors.Wrap(errors.ErrEmpty, "exemption years")
	}
	return nil
}

// GetOwner implements gconf.OwnedConfig.
func (r *Rent) GetOwner() quorum.Pubkey {
	return r.Owner
}

// MinimumBalance returns the deposit needed to retain a storage region
// of given size.
func (r Rent) MinimumBalance(space uint64) (uint64, error) {
	bytes, carry := bits.Add64(space, r.AccountOverhead, 0)
	if carry != 0 {
		return 0, errors.Wrap(errors.ErrOverflow, "account size")
	}
	hi, perYear := bits.Mul64(bytes, r.LamportsPerByteYear)
	if hi != 0 {
		return 0, errors.Wrap(errors.ErrOverflow, "yearly rent")
	}
	hi, total := bits.Mul64(perYear, r.ExemptionYears)
	if hi != 0 {
		return 0, errors.Wrap(errors.ErrOverflow, "minimum balance")
	}
	return total, nil
}

// LoadRent returns the stored configuration, or DefaultRent if none was
// stored.
func LoadRent(db gconf.ReadStore) (Rent, error) {
	var r Rent
	switch err := gconf.Load(db, ConfigPkg, &r); {
	case err == nil:
		return r, nil
	case errors.ErrNotFound.Is(err):
		return DefaultRent(), nil
	default:
		return Rent{}, errors.Wrap(err, "load rent")
	}
}
