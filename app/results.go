package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// ResultSet is the query response envelope: a list of keys or a list
// of values, serialized with quorum.TxCodec.
type ResultSet struct {
	Results [][]byte
}

// Marshal serializes the set.
func (r *ResultSet) Marshal() ([]byte, error) {
	return quorum.TxCodec.MarshalBinaryBare(r)
}

// Unmarshal loads the set from its binary form.
func (r *ResultSet) Unmarshal(bz []byte) error {
	// An empty set encodes to no bytes at all.
	if len(bz) == 0 {
		r.Results = nil
		return nil
	}
	if err := quorum.TxCodec.UnmarshalBinaryBare(bz, r); err != nil {
		return errors.Wrap(errors.ErrMalformed, err.Error())
	}
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []quorum.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []quorum.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]quorum.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrMalformed, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]quorum.Model, len(kref))
	for i := range mods {
		mods[i] = quorum.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// ParseQueryResponse joins the key and value sets of a query response.
func ParseQueryResponse(keys, values []byte) ([]quorum.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return JoinResults(&k, &v)
}
