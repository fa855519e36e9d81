package ext

// ParseExtendedMasterSecret validates the (empty) extended_master_secret
// extension body (RFC 7627 §5.1).
func ParseExtendedMasterSecret(body []byte) error {
	if len(body) != 0 {
		return ErrMalformed
	}
	return nil
}

// BuildExtendedMasterSecret returns the (empty) body the server sends
// back to acknowledge EMS.
func BuildExtendedMasterSecret() []byte {
	return nil
}
