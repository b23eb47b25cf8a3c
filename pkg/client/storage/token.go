package storage

import "errors"

// TokenStore persists the session token under TokenKey.
type TokenStore struct {
	store Store
}

func NewTokenStore(store Store) *TokenStore {
	return &TokenStore{store: store}
}

// Token returns the persisted token, or "" when there is none or it cannot be read.
func (t *TokenStore) Token() string {
	token, err := t.store.Get(TokenKey)
	if err != nil {
		return ""
	}
	return token
}

func (t *TokenStore) Save(token string) error {
	if token == "" {
		return errors.New("storage: empty token")
	}
	return t.store.Set(TokenKey, token)
}

func (t *TokenStore) Clear() error {
	return t.store.Delete(TokenKey)
}
