package account

// Credentials is the parsed account.yaml: the home instance and an
// already-issued OAuth access token. Token acquisition is out of scope;
// Fedimark only consumes a token obtained elsewhere.
type Credentials struct {
	// Instance is the base URL of the home instance, ex: https://hachyderm.io
	Instance string `yaml:"instance"`

	// AccessToken is the bearer token used on every bookmarks request.
	AccessToken string `yaml:"access_token"`
}
