package company

import (
	"context"
	"encoding/json"
)

const cacheKeyEmployerPrefix = "employer:"

type ownerGetter interface {
	OwnerByCompanyID(ctx context.Context, companyID string) (string, error)
}

type nameGetter interface {
	DisplayNameByID(ctx context.Context, userID string) (string, error)
}

type cacher interface {
	CacheGet(key string) ([]byte, bool)
	CacheSet(key string, val []byte) error
}

// EmployerDirectory resolves the employer account behind a company,
// caching the answer since company ownership does not change at runtime.
type EmployerDirectory struct {
	owners ownerGetter
	names  nameGetter
	cache  cacher
}

func NewEmployerDirectory(owners ownerGetter, names nameGetter, cache cacher) *EmployerDirectory {
	return &EmployerDirectory{owners: owners, names: names, cache: cache}
}

func (d *EmployerDirectory) Resolve(ctx context.Context, companyID string) (Employer, error) {
	key := cacheKeyEmployerPrefix + companyID
	if buf, ok := d.cache.CacheGet(key); ok {
		var e Employer
		if err := json.Unmarshal(buf, &e); err == nil {
			return e, nil
		}
	}
	ownerID, err := d.owners.OwnerByCompanyID(ctx, companyID)
	if err != nil {
		return Employer{}, err
	}
	name, err := d.names.DisplayNameByID(ctx, ownerID)
	if err != nil {
		return Employer{}, err
	}
	e := Employer{UserID: ownerID, Name: name}
	if buf, err := json.Marshal(e); err == nil {
		_ = d.cache.CacheSet(key, buf)
	}
	return e, nil
}
