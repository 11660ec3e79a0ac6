// Package secure keeps sensitive values, such as the channel access token,
// encrypted in memory.
//
// It wraps memguard enclaves. Values are sealed with XSalsa20Poly1305 while
// at rest and only decrypted into a locked buffer for the duration of a read:
//
//	buf, err := secure.NewSecureString(token)
//	if err != nil {
//	    return err
//	}
//	defer buf.Destroy()
//
//	plain, err := buf.String()
//
// Call memguard.Purge (or secure.Purge) from main before exiting to wipe
// the enclave keys.
package secure
