package vault

// Config holds the vault configuration. The encryption key is required: the
// process must fail at startup rather than fall back to an ephemeral key
// that would silently break decryption across restarts.
type Config struct {
	EncryptionKey string `env:"MFA_ENCRYPTION_KEY,required"` // Base64-encoded 32-byte master key
}
