package credentials

import "context"

// TokenProvider adapts a Store to the gateway's token source: every
// outbound request reads the currently persisted token, so the gateway can
// never send a token the slot no longer holds.
type TokenProvider struct {
	store Store
}

func NewTokenProvider(store Store) *TokenProvider {
	return &TokenProvider{store: store}
}

func (p *TokenProvider) Token(ctx context.Context) string {
	cred, err := p.store.Get(ctx)
	if err != nil || cred == nil {
		return ""
	}
	return cred.Token
}
