package devenv

// DualisTestConfig holds a real account for the live tests, it is read from
// dev/.state/dualis_config.json5.
type DualisTestConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}
