// Package token resolves the LINE channel access token.
//
// Senders depend on the Provider interface rather than on a secret store, so
// tests can inject Static tokens and production code can stack a Cache on top
// of a StoreProvider:
//
//	tokens := token.NewCache(token.NewStoreProvider(store, secretID, field, logger), logger)
//
// The Cache resolves at most once per process. Both outcomes of a successful
// lookup are memoised: a present token and the absent token reported when no
// secret identifier is configured. Failed lookups are not cached.
package token
