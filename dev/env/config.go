package devenv

// IliadTestConfig holds the credentials of a real iliad account, it is read from
// dev/.state/iliad_config.json5 by tests that talk to the live portal.
type IliadTestConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
