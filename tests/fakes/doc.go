// Package fakes provides test doubles for the SDK clients behind linepush's
// secret stores.
//
// Fakes are manually implemented (not generated) and keep their data in
// memory, so store tests run without cloud credentials or containers.
//
// Usage:
//
//	client := fakes.NewFakeSecretsManagerClient()
//	client.AddSecretString("prod/line", `{"YOUR_CHANNEL_ACCESS_TOKEN":"abc"}`)
//	store, _ := providers.NewAWSSecretsManagerStore(ctx, "aws", nil,
//	    providers.WithSecretsManagerClient(client))
package fakes
