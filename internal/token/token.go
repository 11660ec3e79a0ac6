package token

import "context"

const redacted = "[REDACTED]"

// Token is a bearer token that may be absent. The zero value is absent.
type Token struct {
	value   string
	present bool
}

// New returns a present token
func New(value string) Token {
	return Token{value: value, present: true}
}

// Absent returns the absent token
func Absent() Token {
	return Token{}
}

// Value returns the raw token, or "" when absent
func (t Token) Value() string {
	return t.value
}

// Present reports whether a token was found
func (t Token) Present() bool {
	return t.present
}

// String never reveals the token value
func (t Token) String() string {
	if !t.present {
		return "<absent>"
	}
	return redacted
}

// GoString implements the GoStringer interface for %#v formatting
func (t Token) GoString() string {
	return t.String()
}

// Provider resolves the current access token
type Provider interface {
	Resolve(ctx context.Context) (Token, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context) (Token, error)

// Resolve calls f(ctx)
func (f ProviderFunc) Resolve(ctx context.Context) (Token, error) {
	return f(ctx)
}

// Static returns a provider that always resolves to value
func Static(value string) Provider {
	tok := New(value)
	return ProviderFunc(func(context.Context) (Token, error) {
		return tok, nil
	})
}

// None returns a provider that always resolves to the absent token
func None() Provider {
	return ProviderFunc(func(context.Context) (Token, error) {
		return Absent(), nil
	})
}
